package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_TablaCompleta(t *testing.T) {
	all := []Status{StatusPending, StatusApproved, StatusCompleted, StatusCancelled}

	allowed := map[Status]map[Status]bool{
		StatusPending:  {StatusApproved: true, StatusCancelled: true, StatusCompleted: true},
		StatusApproved: {StatusPending: true, StatusCancelled: true, StatusCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, CanTransition(from, to),
				"arista %s -> %s", from, to)
		}
	}
}

func TestCanTransition_NuncaAlMismoEstado(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusCompleted, StatusCancelled} {
		assert.False(t, CanTransition(s, s), "self-loop en %s", s)
	}
}

func TestNextStates_Terminales(t *testing.T) {
	assert.Empty(t, NextStates(StatusCompleted))
	assert.Empty(t, NextStates(StatusCancelled))
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusApproved))
}

func TestNextStates_CoincideConCanTransition(t *testing.T) {
	// Toda opción listada debe ser una arista legal, y viceversa.
	all := []Status{StatusPending, StatusApproved, StatusCompleted, StatusCancelled}
	for _, from := range all {
		listed := map[Status]bool{}
		for _, to := range NextStates(from) {
			listed[to] = true
			assert.True(t, CanTransition(from, to))
		}
		for _, to := range all {
			if CanTransition(from, to) {
				assert.True(t, listed[to], "arista %s -> %s legal pero no listada", from, to)
			}
		}
	}
}

func TestNextStates_DevuelveCopia(t *testing.T) {
	first := NextStates(StatusPending)
	first[0] = StatusCancelled
	second := NextStates(StatusPending)
	assert.Equal(t, StatusApproved, second[0], "mutar el resultado no debe tocar la tabla")
}

func TestNextStates_EstadoDesconocido(t *testing.T) {
	assert.Empty(t, NextStates(Status("archived")))
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw   string
		valid bool
	}{
		{"pending", true},
		{"approved", true},
		{"completed", true},
		{"cancelled", true},
		{"", false},
		{"Pending", false},
		{"archived", false},
	}
	for _, tc := range cases {
		s, ok := ParseStatus(tc.raw)
		assert.Equal(t, tc.valid, ok, "raw=%q", tc.raw)
		if tc.valid {
			assert.Equal(t, Status(tc.raw), s)
		}
	}
}
