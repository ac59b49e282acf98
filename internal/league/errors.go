package league

import (
	"errors"
	"fmt"
)

// Every rejected operation returns one of these so the caller can present an
// actionable message. None of them leave partial state behind.
var (
	ErrEmptyRoster       = errors.New("no players present for this date")
	ErrNoCourts          = errors.New("no courts available")
	ErrInvalidCourtCount = fmt.Errorf("court count must be between %d and %d", MinCourts, MaxCourts)
	ErrRoundAlreadyOpen  = errors.New("a round is already open")
	ErrRoundClosed       = errors.New("round is closed")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrUnknownRound      = errors.New("unknown round")
	ErrUnknownMatch      = errors.New("unknown match")
	ErrInvalidSide       = errors.New("winner side must be 1 or 2")
	ErrEmptyPlayerName   = errors.New("player name is required")
)

// IncompleteResultsError rejects a round close while matches are still
// missing a winner. Courts lists the unresolved court numbers.
type IncompleteResultsError struct {
	Courts []int
}

func (e *IncompleteResultsError) Error() string {
	if len(e.Courts) == 1 {
		return fmt.Sprintf("close round: 1 match missing a winner (court %d)", e.Courts[0])
	}
	return fmt.Sprintf("close round: %d matches missing a winner (courts %v)", len(e.Courts), e.Courts)
}
