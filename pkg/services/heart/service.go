package heart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the hosted Heart puzzle API.
const DefaultBaseURL = "http://marcconrad.com/uob/heart/api.php"

// rewardChips is the flat payout for a solved puzzle.
const rewardChips = 100

var ErrFetchFailed = errors.New("unable to fetch puzzle from heart api")

// Puzzle is one Heart image puzzle: a picture, the digit it hides, and the
// carrot count the picture shows.
type Puzzle struct {
	Question string `json:"question"`
	Solution int    `json:"solution"`
	Carrots  int    `json:"carrots"`
}

// Service fetches Heart puzzles from the external API and scores answers.
type Service struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewService creates a heart service. An empty baseURL uses the hosted API.
func NewService(baseURL string, logger *zap.Logger) *Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// FetchPuzzle retrieves a fresh puzzle from the Heart API.
func (s *Service) FetchPuzzle(ctx context.Context) (*Puzzle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("heart api request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		s.logger.Warn("heart api returned non-200", zap.Int("status", res.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, res.StatusCode)
	}

	var puzzle Puzzle
	if err := json.NewDecoder(res.Body).Decode(&puzzle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return &puzzle, nil
}

// ValidateSolution reports whether the answer solves the puzzle.
func (s *Service) ValidateSolution(puzzle *Puzzle, answer int) bool {
	return puzzle.Solution == answer
}

// Reward returns the chip reward for a solved puzzle.
func (s *Service) Reward() int64 {
	return rewardChips
}
