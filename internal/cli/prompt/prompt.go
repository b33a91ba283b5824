// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/logging"
	"github.com/thoreinstein/checkpoint/internal/snapshot"
)

// Sentinel errors for checkpoint selection.
var (
	ErrNoSnapshots        = errors.New("no checkpoints to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Prompter asks the user to pick checkpoints and confirm actions.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// fuzzy selects through a full-screen finder instead of a numbered list
	fuzzy bool
}

// New creates a Prompter on stdin and stdout. The fuzzy finder is used when
// both are terminals.
func New() *Prompter {
	return &Prompter{
		in:    bufio.NewReader(os.Stdin),
		out:   os.Stdout,
		fuzzy: logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout),
	}
}

// NewWithIO creates a line-based Prompter with custom reader and writer for testing.
func NewWithIO(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(r),
		out: w,
	}
}

// Interactive reports whether the Prompter drives a terminal.
func (p *Prompter) Interactive() bool {
	return p.fuzzy
}

// SelectSnapshot prompts the user to choose a checkpoint.
//
// Returns:
//   - ErrNoSnapshots if the list is empty
//   - The checkpoint if only one exists (auto-selects without prompting)
//   - The selected checkpoint based on user input
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled on EOF or when the finder is aborted
func (p *Prompter) SelectSnapshot(snaps []snapshot.Snapshot) (*snapshot.Snapshot, error) {
	if len(snaps) == 0 {
		return nil, ErrNoSnapshots
	}
	if len(snaps) == 1 {
		return &snaps[0], nil
	}
	if p.fuzzy {
		return findSnapshot(snaps)
	}

	fmt.Fprintln(p.out, "Available checkpoints:")
	for i, s := range snaps {
		fmt.Fprintf(p.out, "  [%d] %s  %s  (%s)\n", i+1, s.DisplayName(), s.DisplayDate(), s.Folder)
	}
	fmt.Fprintf(p.out, "Select [1]: ")

	input, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if input == "" {
		return &snaps[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(snaps) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(snaps))
	}
	return &snaps[selection-1], nil
}

func findSnapshot(snaps []snapshot.Snapshot) (*snapshot.Snapshot, error) {
	idx, err := fuzzyfinder.Find(
		snaps,
		func(i int) string {
			return fmt.Sprintf("%s  %s", snaps[i].DisplayDate(), snaps[i].DisplayName())
		},
		fuzzyfinder.WithHeader("Select a checkpoint"),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return Describe(snaps[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "checkpoint selection failed")
	}
	return &snaps[idx], nil
}

// Describe renders the details of one checkpoint as plain text.
func Describe(s snapshot.Snapshot) string {
	var b strings.Builder
	md := s.Metadata
	fmt.Fprintf(&b, "Name:     %s\n", s.DisplayName())
	fmt.Fprintf(&b, "Created:  %s\n", s.DisplayDate())
	fmt.Fprintf(&b, "Folder:   %s\n", s.ID)
	if s.Degraded {
		return b.String()
	}
	if md.ProjectPath != "" {
		fmt.Fprintf(&b, "Project:  %s\n", md.ProjectPath)
	}
	fmt.Fprintf(&b, "Files:    %d\n", md.FilesCopied)
	fmt.Fprintf(&b, "Folders:  %d\n", md.FoldersCreated)
	if len(md.Exclusions) > 0 {
		b.WriteString("Excluded:\n")
		for _, e := range md.Exclusions {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}

// Confirm asks a yes/no question. It returns true only if the user enters
// "y" or "yes" (case-insensitive); EOF counts as no.
func (p *Prompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)

	response, err := p.readLine()
	if err != nil {
		return false
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes"
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		// a final line without newline still counts
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading input")
	}
	return strings.TrimSpace(line), nil
}
