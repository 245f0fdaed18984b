package dice

import (
	"fmt"
	"strconv"
	"strings"

	"nontransitive/random"
)

// Die is an immutable sequence of integer faces.
type Die struct {
	faces []int
}

// NewDie copies values into a new Die.
func NewDie(values []int) (Die, error) {
	if len(values) == 0 {
		return Die{}, ErrEmptyFaces
	}
	faces := make([]int, len(values))
	copy(faces, values)
	return Die{faces: faces}, nil
}

// Faces returns a copy of the die's face values in their original order.
func (d Die) Faces() []int {
	faces := make([]int, len(d.faces))
	copy(faces, d.faces)
	return faces
}

// Len returns the number of faces.
func (d Die) Len() int {
	return len(d.faces)
}

// Face returns the value at index i.
func (d Die) Face(i int) int {
	return d.faces[i]
}

// Roll returns a face chosen uniformly at random from src.
func (d Die) Roll(src random.Source) (int, error) {
	idx, err := src.IntN(len(d.faces))
	if err != nil {
		return 0, fmt.Errorf("failed to roll die: %w", err)
	}
	return d.faces[idx], nil
}

func (d Die) String() string {
	parts := make([]string, len(d.faces))
	for i, v := range d.faces {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ParseFaces turns "2,2,4,4,9,9" into its integer faces.
func ParseFaces(text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyFaces
	}

	tokens := strings.Split(text, ",")
	faces := make([]int, 0, len(tokens))
	for _, token := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			return nil, ErrNonIntegerFace
		}
		faces = append(faces, v)
	}
	return faces, nil
}
