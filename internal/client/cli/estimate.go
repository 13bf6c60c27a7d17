package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/municollect/internal/client/estimate"
	"github.com/dmitrijs2005/municollect/internal/client/ui"
)

var errEstimatorOff = errors.New("estimator not configured")

// Estimate sends a photo of the waste to the estimator service and prints
// the suggested fee.
func (a *App) Estimate(ctx context.Context, args []string) error {
	if err := a.guard(); err != nil {
		return err
	}
	if a.estimator == nil {
		a.printf("Estimates are unavailable: no estimator URL configured\n")
		return errEstimatorOff
	}
	if len(args) == 0 {
		return a.usage("estimate <photo-file> [description...]")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		a.printf("Cannot read photo: %v\n", err)
		return err
	}
	req := estimate.Request{
		PhotoDataURI: estimate.PhotoDataURI(http.DetectContentType(data), data),
		Description:  strings.Join(args[1:], " "),
	}

	est, err := a.estimator.Estimate(ctx, req)
	if err != nil {
		a.term.Notify(ui.Notice{Level: ui.LevelError, Title: "Estimate failed", Description: err.Error()})
		return err
	}
	a.printf("Estimated cost: %.0f THB\n", est.EstimatedCost)
	a.printf("  %s\n", est.Justification)
	return nil
}

// Fee prices a pickup from the municipal schedule without the estimator.
func (a *App) Fee(_ context.Context, args []string) error {
	const usage = "fee <cubic-meters> [special]"
	if len(args) == 0 || len(args) > 2 {
		return a.usage(usage)
	}
	volume, err := strconv.ParseFloat(args[0], 64)
	if err != nil || volume < 0 {
		return a.usage(usage)
	}
	special := len(args) == 2 && args[1] == "special"

	a.printf("Fee: %.0f THB\n", a.pricing.Fee(volume, special))
	return nil
}

// Stats prints the client's request counters.
func (a *App) Stats(_ context.Context, _ []string) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, mf := range families {
		name := strings.TrimPrefix(mf.GetName(), "municollect_client_")
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%-22s %-50s %.0f",
				name, strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	if len(lines) == 0 {
		a.printf("No requests yet\n")
		return nil
	}
	sort.Strings(lines)
	for _, l := range lines {
		a.printf("%s\n", l)
	}
	return nil
}
