// Package console runs the dice game as a text menu over any reader and
// writer pair.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"nontransitive/dice"
	"nontransitive/fairness"
	"nontransitive/models"
	"nontransitive/service"

	log "github.com/sirupsen/logrus"
)

type state int

const (
	stateMenu state = iota
	stateRound
	stateExit
)

// Options tweak how the console game behaves
type Options struct {
	// FairRolls turns every die roll into a commit-reveal round
	FairRolls bool
}

// Game is the interactive menu loop: menu -> round -> menu until exit.
type Game struct {
	game     service.GameService
	fairness service.FairnessService
	opts     Options

	in  *bufio.Scanner
	out io.Writer

	state     state
	chosenDie int
	lastProof *models.FairnessProof
}

// NewGame creates a console game reading choices from in and writing to out
func NewGame(game service.GameService, fairnessService service.FairnessService, opts Options, in io.Reader, out io.Writer) *Game {
	return &Game{
		game:     game,
		fairness: fairnessService,
		opts:     opts,
		in:       bufio.NewScanner(in),
		out:      out,
		state:    stateMenu,
	}
}

// Run plays until the user exits or input ends. End of input counts as exit.
func (g *Game) Run(ctx context.Context) error {
	g.println("Welcome to the Non-Transitive Dice Game!")

	for g.state != stateExit {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch g.state {
		case stateMenu:
			err = g.menu(ctx)
		case stateRound:
			err = g.round(ctx)
			g.state = stateMenu
		}

		if errors.Is(err, io.EOF) {
			g.state = stateExit
			continue
		}
		if err != nil {
			return err
		}
	}

	g.println("Thanks for playing!")
	return nil
}

func (g *Game) menu(ctx context.Context) error {
	set := g.game.Dice()

	g.println("\nMenu:")
	for i := 0; i < set.Len(); i++ {
		g.printf("%d. Use Dice %d: %s\n", i+1, i+1, set.Die(i))
	}
	g.println("F. Fair random draw")
	g.println("H. Help")
	g.println("V. Verify last draw")
	g.println("E. Exit")

	choice, err := g.ask("Choose an option: ")
	if err != nil {
		return err
	}

	switch strings.ToUpper(choice) {
	case "E":
		g.state = stateExit
		return nil
	case "H":
		return g.help()
	case "F":
		_, err := g.fairDraw(ctx, models.PurposeDraw, set.MaxFaces())
		return err
	case "V":
		return g.verify(ctx)
	}

	n, err := strconv.Atoi(choice)
	if err != nil || !set.Valid(n-1) {
		g.println("Invalid choice. Try again.")
		return nil
	}
	g.chosenDie = n - 1
	g.state = stateRound
	return nil
}

func (g *Game) round(ctx context.Context) error {
	if !g.opts.FairRolls {
		result, err := g.game.PlayRound(ctx, g.chosenDie)
		if err != nil {
			return fmt.Errorf("failed to play round: %w", err)
		}
		g.printRound(result)
		return nil
	}

	computerDie, err := g.game.ChooseComputerDie(ctx, g.chosenDie)
	if err != nil {
		return fmt.Errorf("failed to choose computer die: %w", err)
	}

	g.printf("You rolled Dice %d, let's make that fair.\n", g.chosenDie+1)
	playerRoll, err := g.fairRoll(ctx, models.PurposePlayer, g.chosenDie)
	if err != nil {
		return err
	}
	g.printf("Computer rolls Dice %d, let's make that fair too.\n", computerDie+1)
	computerRoll, err := g.fairRoll(ctx, models.PurposeComputer, computerDie)
	if err != nil {
		return err
	}

	result := g.game.Resolve(ctx, &models.RoundResult{
		PlayerDie:    g.chosenDie,
		PlayerRoll:   playerRoll,
		ComputerDie:  computerDie,
		ComputerRoll: computerRoll,
	})
	g.printRound(result)
	return nil
}

func (g *Game) printRound(result *models.RoundResult) {
	g.printf("Player rolled %d using Dice %d\n", result.PlayerRoll, result.PlayerDie+1)
	g.printf("Computer rolled %d using Dice %d\n", result.ComputerRoll, result.ComputerDie+1)

	switch result.Outcome {
	case dice.OutcomePlayerWins:
		g.println("Player wins this round!")
	case dice.OutcomeComputerWins:
		g.println("Computer wins this round!")
	default:
		g.println("It's a tie!")
	}
}

// fairRoll picks a face of die with a fair draw over its face count
func (g *Game) fairRoll(ctx context.Context, purpose string, die int) (int, error) {
	d := g.game.Dice().Die(die)
	proof, err := g.fairDraw(ctx, purpose, d.Len())
	if err != nil {
		return 0, err
	}
	return d.Face(*proof.Result), nil
}

// fairDraw runs one commit-reveal round, re-prompting on bad numbers
func (g *Game) fairDraw(ctx context.Context, purpose string, rangeEnd int) (*models.FairnessProof, error) {
	commitment, err := g.fairness.Commit(ctx, purpose, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	g.printf("Computer HMAC: %s\n", commitment.HMAC)

	for {
		text, err := g.ask(fmt.Sprintf("Enter a number between 0 and %d: ", rangeEnd-1))
		if err != nil {
			return nil, err
		}

		userNumber, err := fairness.ParseUserNumber(text, rangeEnd)
		if err != nil {
			g.printf("Invalid number. Enter a whole number between 0 and %d.\n", rangeEnd-1)
			continue
		}

		proof, err := g.fairness.Reveal(ctx, commitment.RoundID, userNumber)
		if service.IsUserInputError(err) {
			g.printf("Invalid number. Enter a whole number between 0 and %d.\n", rangeEnd-1)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to reveal: %w", err)
		}

		g.printf("Computer number: %d, Key: %s, Result: %d\n", *proof.ComputerNumber, proof.Key, *proof.Result)
		g.lastProof = proof

		log.WithFields(log.Fields{
			"roundID": proof.RoundID,
			"purpose": purpose,
		}).Debug("Fair draw revealed")
		return proof, nil
	}
}

func (g *Game) verify(ctx context.Context) error {
	if g.lastProof == nil {
		g.println("No fair draw to verify yet.")
		return nil
	}

	ok, err := g.fairness.Verify(ctx, g.lastProof.RoundID)
	if err != nil {
		return fmt.Errorf("failed to verify draw: %w", err)
	}
	if ok {
		g.printf("Draw %s verified: HMAC matches computer number %d.\n", g.lastProof.RoundID, *g.lastProof.ComputerNumber)
	} else {
		g.printf("Draw %s FAILED verification.\n", g.lastProof.RoundID)
	}
	return nil
}

func (g *Game) help() error {
	g.println("\nWinning Probabilities Table:")
	g.println("Row die beats column die with the probability shown.")
	return RenderTable(g.out, g.game.Probabilities())
}

// ask writes a prompt and reads one trimmed line
func (g *Game) ask(prompt string) (string, error) {
	fmt.Fprint(g.out, prompt)
	if !g.in.Scan() {
		if err := g.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(g.in.Text()), nil
}

func (g *Game) println(s string) {
	fmt.Fprintln(g.out, s)
}

func (g *Game) printf(format string, args ...any) {
	fmt.Fprintf(g.out, format, args...)
}
