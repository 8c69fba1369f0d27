// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ucarion/jcs"

	"github.com/bradwindy/app-intents-mcp/lib/catalog"
	"github.com/bradwindy/app-intents-mcp/lib/clock"
	"github.com/bradwindy/app-intents-mcp/lib/value"
)

// ActionLookup resolves an action by ID. *catalog.Catalog implements it.
type ActionLookup interface {
	Get(id string) (catalog.Action, bool)
}

// Coordinator resolves actions to runnables and executes them.
type Coordinator struct {
	actions ActionLookup
	runner  Runner
	policy  MatchPolicy
	clock   clock.Clock
	logger  *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithPolicy sets the runnable match policy. The default is MatchRanked.
func WithPolicy(policy MatchPolicy) CoordinatorOption {
	return func(c *Coordinator) { c.policy = policy }
}

// WithClock sets the clock used to time executions.
func WithClock(cl clock.Clock) CoordinatorOption {
	return func(c *Coordinator) { c.clock = cl }
}

// WithLogger sets the logger for execution events.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

// NewCoordinator returns a Coordinator that looks actions up in
// actions and executes them through runner. A nil runner behaves as
// an unavailable one.
func NewCoordinator(actions ActionLookup, runner Runner, options ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		actions: actions,
		runner:  runner,
		policy:  MatchRanked,
		clock:   clock.Real(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Execute runs the action with the given ID. Every failure, including
// an unknown ID, is reported as a failed Outcome rather than an error:
// the request was well formed, the action just could not be run.
//
// Arguments are passed to the runnable as canonical JSON (RFC 8785)
// when they are an object with at least one key.
func (c *Coordinator) Execute(ctx context.Context, id string, arguments value.Value) Outcome {
	start := c.clock.Now()
	elapsed := func() float64 { return clock.Since(c.clock, start).Seconds() }

	action, ok := c.actions.Get(id)
	if !ok {
		return Outcome{ErrorMessage: fmt.Sprintf("Intent not found: %s", id), ElapsedSeconds: elapsed()}
	}

	unavailable := func() Outcome {
		return Outcome{
			ErrorMessage: fmt.Sprintf("No execution strategy available for intent '%s'. "+
				"Create a Shortcut named '%s' to enable execution.", action.Name, action.Name),
			ElapsedSeconds: elapsed(),
		}
	}

	if c.runner == nil || !c.runner.Available() {
		c.logger.Debug("runner unavailable", "action", action.ID)
		return unavailable()
	}

	runnables, err := c.runner.ListRunnables(ctx)
	if err != nil {
		c.logger.Warn("listing runnables failed", "action", action.ID, "error", err)
		return unavailable()
	}
	runnable, ok := c.policy.Select(action.Name, runnables)
	if !ok {
		c.logger.Debug("no runnable matches action", "action", action.ID, "name", action.Name, "candidates", len(runnables))
		return unavailable()
	}

	input, err := canonicalInput(arguments)
	if err != nil {
		return Outcome{ErrorMessage: fmt.Sprintf("Invalid parameters for intent '%s': %v", action.Name, err), ElapsedSeconds: elapsed()}
	}

	c.logger.Info("running action", "action", action.ID, "runnable", runnable, "has_input", input != "")
	outcome, err := c.runner.Run(ctx, runnable, input)
	if err != nil {
		outcome = Outcome{ErrorMessage: fmt.Sprintf("Running shortcut '%s' failed: %v", runnable, err)}
	}
	outcome.ElapsedSeconds = elapsed()
	return outcome
}

// canonicalInput serializes an object with at least one key to
// canonical JSON. Anything else produces no input.
func canonicalInput(arguments value.Value) (string, error) {
	object, ok := value.AsObject(arguments)
	if !ok || len(object) == 0 {
		return "", nil
	}
	encoded, err := value.Marshal(object)
	if err != nil {
		return "", err
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return "", err
	}
	return jcs.Format(normalized)
}
