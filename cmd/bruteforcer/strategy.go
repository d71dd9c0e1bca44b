package main

import (
	"regexp"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/escaperoom/game/engine"
)

// DefaultWords are tried against every puzzle before harvested candidates
var DefaultWords = []string{
	"0000", "1111", "1234", "4321", "9999",
	"password", "open", "key", "exit", "escape", "secret",
	"red", "blue", "green", "red,blue,green",
}

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+(?:,[A-Za-z0-9]+)*`)

// Strategy picks the next guess for a session. It probes each puzzle with an
// empty answer first: a locked door answers with its remaining prerequisites,
// which identifies it without knowing the room.
type Strategy struct {
	candidates []string
	known      map[string]bool
	tried      map[string]map[string]bool
	probed     map[string]bool
	door       string
	remaining  []string
}

func NewStrategy(words []string) *Strategy {
	s := &Strategy{
		known:  make(map[string]bool),
		tried:  make(map[string]map[string]bool),
		probed: make(map[string]bool),
	}
	for _, w := range words {
		s.addCandidate(w)
	}
	return s
}

// Door returns the door puzzle id once a probe has identified it
func (s *Strategy) Door() string {
	return s.door
}

// Candidates returns the guesses known so far in the order they are tried
func (s *Strategy) Candidates() []string {
	return append([]string(nil), s.candidates...)
}

func (s *Strategy) addCandidate(word string) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || s.known[word] {
		return
	}
	s.known[word] = true
	s.candidates = append(s.candidates, word)
}

// Harvest adds the words and numbers found in text, such as a hint or an
// item description, as candidates
func (s *Strategy) Harvest(text string) {
	for _, token := range tokenPattern.FindAllString(text, -1) {
		if len(token) < 3 {
			continue
		}
		s.addCandidate(token)
	}
}

// Next returns the next puzzle and answer to try, or false when every
// candidate is exhausted
func (s *Strategy) Next(view *engine.View) (string, string, bool) {
	unsolved := unsolvedPuzzles(view)

	for _, id := range unsolved {
		if !s.probed[id] {
			return id, "", true
		}
	}

	if s.door != "" && !view.Puzzles[s.door].Solved && allSolved(view, s.remaining) {
		return s.door, "", true
	}

	for _, id := range unsolved {
		if id == s.door {
			continue
		}
		for _, c := range s.candidates {
			if !s.tried[id][c] {
				return id, c, true
			}
		}
	}

	return "", "", false
}

// Record stores the outcome of an attempt
func (s *Strategy) Record(puzzleID, attempt string, result *engine.SolveResult) {
	if attempt == "" {
		s.probed[puzzleID] = true
		if result != nil && !result.Success && len(result.Remaining) > 0 {
			s.door = puzzleID
			s.remaining = result.Remaining
		}
		return
	}

	if s.tried[puzzleID] == nil {
		s.tried[puzzleID] = make(map[string]bool)
	}
	s.tried[puzzleID][attempt] = true
}

func allSolved(view *engine.View, ids []string) bool {
	for _, id := range ids {
		if !view.Puzzles[id].Solved {
			return false
		}
	}
	return true
}

func unsolvedPuzzles(view *engine.View) []string {
	var ids []string
	for id, p := range view.Puzzles {
		if !p.Solved {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
