package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmcallister/salescope/internal/service"
)

var _ service.FilterPrompter = (*FilterPrompter)(nil)

// FilterPrompter collects filter options interactively from the
// terminal. Blank answers leave the corresponding option unset.
type FilterPrompter struct {
	reader *Reader
	writer io.Writer
}

// NewFilterPrompter creates a prompter over the given streams.
func NewFilterPrompter(in io.Reader, out io.Writer) *FilterPrompter {
	return &FilterPrompter{
		reader: NewReader(in),
		writer: out,
	}
}

// PromptFilters shows the operator what the dataset contains, then asks
// whether and how to filter it. An amount bound left blank stays nil; an
// explicit 0 is a real bound.
func (p *FilterPrompter) PromptFilters(ctx context.Context, stats service.DatasetStats) (service.FilterOptions, error) {
	var opts service.FilterOptions

	if stats.Observed {
		fmt.Fprintln(p.writer, SubtleStyle.Render(
			fmt.Sprintf("Available regions: %s", strings.Join(stats.Regions, ", "))))
		fmt.Fprintln(p.writer, SubtleStyle.Render(
			fmt.Sprintf("Transaction amount range: %.2f - %.2f", stats.MinAmount, stats.MaxAmount)))
	}

	answer, err := p.ask(ctx, "Apply filters to the dataset? (y/n): ")
	if err != nil {
		return opts, err
	}
	if !strings.EqualFold(answer, "y") {
		return opts, nil
	}

	region, err := p.ask(ctx, "Region (blank to skip): ")
	if err != nil {
		return opts, err
	}
	opts.Region = region

	opts.MinAmount, err = p.askAmount(ctx, "Minimum amount (blank to skip): ")
	if err != nil {
		return opts, err
	}
	opts.MaxAmount, err = p.askAmount(ctx, "Maximum amount (blank to skip): ")
	if err != nil {
		return opts, err
	}

	return opts, nil
}

func (p *FilterPrompter) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(p.writer, PromptStyle.Render(prompt))
	return p.reader.ReadLine(ctx)
}

func (p *FilterPrompter) askAmount(ctx context.Context, prompt string) (*float64, error) {
	answer, err := p.ask(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}
	amount, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", answer, err)
	}
	return &amount, nil
}
