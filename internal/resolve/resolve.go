// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns citation ids into bibliographic records via an
// external lookup tool, with an in-memory double and an optional SQLite
// read-through cache.
// Implements: prd003-resolution (R1-R4);
//
//	docs/ARCHITECTURE § Reference Resolution.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/slidegen/pkg/types"
)

// ErrUnavailable marks the resolver as unusable for this run. Callers must
// treat it as a non-fatal degradation: citation markers stay unexpanded and
// a single warning is recorded (R1.3). Wrap it with context describing
// whether the tool is absent or errored; the two cases produce distinct
// warning text but identical control flow.
var ErrUnavailable = errors.New("reference resolver unavailable")

// NotInstalledError reports that the lookup tool is not on PATH.
type NotInstalledError struct {
	Command string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("%s is not installed", e.Command)
}

func (e *NotInstalledError) Unwrap() error { return ErrUnavailable }

// ToolError reports that the lookup tool is present but the batched call
// failed (non-zero exit, timeout, unparseable output).
type ToolError struct {
	Command string
	Err     error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *ToolError) Unwrap() error { return ErrUnavailable }

// Resolver maps an ordered list of citation ids to reference items. A
// partial result is the expected common case: ids the backend cannot find
// are simply absent from the returned map (R2.3). Errors other than
// ErrUnavailable wrappers are not produced.
type Resolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]types.ReferenceItem, error)
}

// Static is a deterministic in-memory Resolver used by tests and offline
// runs. When Err is set it is returned for every call.
type Static struct {
	Items map[string]types.ReferenceItem
	Err   error
}

// Resolve returns the subset of Items matching ids.
func (s *Static) Resolve(_ context.Context, ids []string) (map[string]types.ReferenceItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]types.ReferenceItem, len(ids))
	for _, id := range ids {
		if item, ok := s.Items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}
