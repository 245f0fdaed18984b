package api

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"nontransitive/fairness"
	"nontransitive/models"
	"nontransitive/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handleDice(w http.ResponseWriter, r *http.Request) {
	set := s.game.Dice()

	resp := DiceResponse{Dice: make([]DieResponse, set.Len())}
	for i := 0; i < set.Len(); i++ {
		resp.Dice[i] = DieResponse{Index: i + 1, Faces: set.Die(i).Faces()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProbabilities(w http.ResponseWriter, r *http.Request) {
	m := s.game.Probabilities()

	fractions := make([][]Fraction, m.Size())
	for i := range fractions {
		fractions[i] = make([]Fraction, m.Size())
		for j := range fractions[i] {
			wins, total := m.Fraction(i, j)
			fractions[i][j] = Fraction{Wins: wins, Total: total}
		}
	}

	writeJSON(w, http.StatusOK, ProbabilitiesResponse{
		Size:      m.Size(),
		Rows:      m.Rows(),
		Fractions: fractions,
	})
}

func (s *Server) handleListProofs(w http.ResponseWriter, r *http.Request) {
	limit := defaultProofLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxProofLimit {
			writeError(w, r, http.StatusBadRequest, ErrTypeValidation,
				"limit must be an integer between 1 and "+strconv.Itoa(maxProofLimit))
			return
		}
		limit = n
	}

	proofs, err := s.fairness.Recent(r.Context(), limit)
	if err != nil {
		log.WithError(err).Error("Failed to list proofs")
		writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to list proofs")
		return
	}

	resp := ProofsResponse{Proofs: make([]ProofResponse, 0, len(proofs))}
	for _, p := range proofs {
		resp.Proofs = append(resp.Proofs, newProofResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProof(w http.ResponseWriter, r *http.Request) {
	roundID, err := uuid.Parse(chi.URLParam(r, "roundID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "roundID must be a UUID")
		return
	}

	proof, err := s.fairness.Proof(r.Context(), roundID)
	if errors.Is(err, service.ErrRoundNotFound) {
		writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "no proof for round "+roundID.String())
		return
	}
	if err != nil {
		log.WithError(err).WithField("roundID", roundID).Error("Failed to get proof")
		writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to get proof")
		return
	}

	writeJSON(w, http.StatusOK, newProofResponse(proof))
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body")
		return
	}
	if req.HMAC == "" || req.ComputerNumber == nil {
		writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "hmac, key and computer_number are required")
		return
	}

	key, err := hex.DecodeString(req.Key)
	if err != nil || len(key) == 0 {
		writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "key must be non-empty hex")
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{
		Valid: fairness.Verify(req.HMAC, key, *req.ComputerNumber),
	})
}

func newProofResponse(p *models.FairnessProof) ProofResponse {
	resp := ProofResponse{FairnessProof: p}
	if p.Revealed() {
		ok := service.VerifyProof(p)
		resp.Verified = &ok
	}
	return resp
}
