// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/pdiddy/slidegen/pkg/types"
)

const (
	defaultCommand = "manubot"
	defaultTimeout = 30 * time.Second
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

var defaultExec executor = &osExecutor{}

// Manubot resolves citation ids by invoking the manubot CLI once per batch
// with every id, never one call per id (R1.2). Absence of the binary and
// failures of the call are both reported as ErrUnavailable wrappers so the
// pipeline can continue without references.
type Manubot struct {
	command string
	timeout time.Duration
	exec    executor
}

// NewManubot creates a resolver from config, falling back to the "manubot"
// command and a 30 s timeout.
func NewManubot(cfg types.ResolverConfig) *Manubot {
	command := cfg.Command
	if command == "" {
		command = defaultCommand
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Manubot{command: command, timeout: timeout, exec: defaultExec}
}

// Resolve issues exactly one batched lookup for ids and returns the items
// keyed by their requested id. Ids the tool does not know are absent from
// the map. Timeouts surface as unavailability, not as raw exec errors
// (R3.3).
func (m *Manubot) Resolve(ctx context.Context, ids []string) (map[string]types.ReferenceItem, error) {
	if len(ids) == 0 {
		return map[string]types.ReferenceItem{}, nil
	}

	if _, err := m.exec.LookPath(m.command); err != nil {
		return nil, &NotInstalledError{Command: m.command}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	args := append([]string{"cite", "--format", "csljson"}, ids...)
	out, err := m.exec.Output(ctx, m.command, args...)
	if err != nil {
		return nil, &ToolError{Command: m.command, Err: err}
	}

	items, err := parseCSLJSON(out)
	if err != nil {
		return nil, &ToolError{Command: m.command, Err: err}
	}

	return keyByRequestedID(ids, items), nil
}

// cslItem is the wire shape of one CSL-JSON record as manubot emits it.
type cslItem struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ContainerTitle string `json:"container-title"`
	Volume         string `json:"volume"`
	Issue          string `json:"issue"`
	Page           string `json:"page"`
	DOI            string `json:"DOI"`
	PMID           string `json:"PMID"`
	URL            string `json:"URL"`
	Author         []struct {
		Family  string `json:"family"`
		Given   string `json:"given"`
		Literal string `json:"literal"`
	} `json:"author"`
	Issued struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"issued"`
}

func parseCSLJSON(data []byte) ([]types.ReferenceItem, error) {
	var raw []cslItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing CSL-JSON output: %w", err)
	}

	items := make([]types.ReferenceItem, 0, len(raw))
	for _, r := range raw {
		item := types.ReferenceItem{
			ID:             r.ID,
			Title:          r.Title,
			ContainerTitle: r.ContainerTitle,
			Volume:         r.Volume,
			Issue:          r.Issue,
			Page:           r.Page,
			DOI:            r.DOI,
			PMID:           r.PMID,
			URL:            r.URL,
		}
		for _, a := range r.Author {
			item.Authors = append(item.Authors, types.CSLName{
				Family:  a.Family,
				Given:   a.Given,
				Literal: a.Literal,
			})
		}
		if len(r.Issued.DateParts) > 0 && len(r.Issued.DateParts[0]) > 0 {
			item.IssuedYear = r.Issued.DateParts[0][0]
		}
		items = append(items, item)
	}
	return items, nil
}

// keyByRequestedID maps returned items back to the ids the caller asked
// for. Manubot normalizes ids in its output (e.g. case folding on DOIs), so
// items are matched positionally when counts line up and by exact id
// otherwise.
func keyByRequestedID(ids []string, items []types.ReferenceItem) map[string]types.ReferenceItem {
	out := make(map[string]types.ReferenceItem, len(items))

	if len(items) == len(ids) {
		for i, item := range items {
			item.ID = ids[i]
			out[ids[i]] = item
		}
		return out
	}

	byID := make(map[string]types.ReferenceItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out[id] = item
		}
	}
	return out
}
