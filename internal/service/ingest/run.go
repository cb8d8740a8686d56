package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/batch"
	"github.com/dailylaw/ledge-backend/internal/service/synthesis"
)

// Run ingests from each source in turn under one shared budget. It fails
// only when no source could even be listed; per-bill problems land in the
// Skipped and Failed lists.
func (s *Service) Run(ctx context.Context, sources ...Source) (*Result, error) {
	if len(sources) == 0 {
		return nil, errors.New("ingest.Run: no sources configured")
	}

	run, ctx := batch.Start(ctx, s.clock, s.cfg.Budget, s.log)
	res := &Result{RunID: run.ID}

	var setupErrs []error
	for _, src := range sources {
		if run.OverBudget() {
			res.TimedOut = true
			run.Logf(ctx, "budget exhausted before %s", src.Name())
			break
		}

		sr, err := s.runSource(ctx, run, src)
		if err != nil {
			setupErrs = append(setupErrs, err)
			sr.Error = err.Error()
			run.Warnf(ctx, "%s: %v", src.Name(), err)
		}
		if sr.timedOut {
			res.TimedOut = true
		}
		res.Sources = append(res.Sources, sr.SourceResult)
		if res.TimedOut {
			break
		}
	}

	res.Log = run.Lines()
	if len(setupErrs) == len(sources) {
		return res, fmt.Errorf("ingest.Run: %w", errors.Join(setupErrs...))
	}

	s.log.InfoContext(ctx, "ingest run finished",
		slog.String("run_id", run.ID),
		slog.Int("sources", len(res.Sources)),
		slog.Bool("timed_out", res.TimedOut),
		slog.Duration("elapsed", run.Elapsed()),
	)
	return res, nil
}

type sourceRun struct {
	SourceResult
	timedOut bool
}

func (s *Service) runSource(ctx context.Context, run *batch.Run, src Source) (sourceRun, error) {
	name := src.Name()
	sr := sourceRun{SourceResult: SourceResult{
		Source:  name,
		Created: []string{},
		Skipped: []string{},
		Failed:  []string{},
	}}

	candidates, err := s.candidates(ctx, run, src, &sr.SourceResult)
	if err != nil {
		return sr, err
	}
	sr.New = len(candidates)

	if len(candidates) > s.cfg.MaxPerRun {
		run.Logf(ctx, "%s: %d new bills, processing %d this run", name, len(candidates), s.cfg.MaxPerRun)
		candidates = candidates[:s.cfg.MaxPerRun]
	}

	for _, bill := range candidates {
		if run.OverBudget() {
			sr.timedOut = true
			run.Logf(ctx, "%s: budget exhausted after %s", name, run.Elapsed())
			break
		}
		if err := ctx.Err(); err != nil {
			return sr, err
		}
		if err := s.ingestOne(ctx, run, src, bill, &sr.SourceResult); err != nil {
			return sr, err
		}
	}

	run.Logf(ctx, "%s: created %d, skipped %d, failed %d",
		name, len(sr.Created), len(sr.Skipped), len(sr.Failed))
	return sr, nil
}

// candidates runs the priority sweep and, when it finds nothing new, reads
// one archive page and advances the stored offset.
func (s *Service) candidates(ctx context.Context, run *batch.Run, src Source, sr *SourceResult) ([]domain.Bill, error) {
	name := src.Name()

	recent, err := src.FetchRecent(ctx, s.cfg.PriorityWindow, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch recent: %w", err)
	}
	sr.Fetched = len(recent)

	fresh, err := s.unknown(ctx, recent)
	if err != nil {
		return nil, err
	}
	if len(fresh) > 0 {
		run.Logf(ctx, "%s: priority sweep found %d new of %d", name, len(fresh), len(recent))
		return fresh, nil
	}

	offset, err := s.cursors.Offset(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read archive offset: %w", err)
	}
	if offset < s.cfg.PriorityWindow {
		offset = s.cfg.PriorityWindow
	}

	sr.UsedArchive = true
	sr.ArchiveOffset = offset

	archive, err := src.FetchRecent(ctx, s.cfg.ArchiveBatch, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch archive at %d: %w", offset, err)
	}
	sr.Fetched += len(archive)

	next := offset + s.cfg.ArchiveBatch
	if len(archive) == 0 {
		next = s.cfg.PriorityWindow
		run.Logf(ctx, "%s: archive exhausted at offset %d, rewinding", name, offset)
	}
	if err := s.cursors.SetOffset(ctx, name, next); err != nil {
		return nil, fmt.Errorf("store archive offset: %w", err)
	}

	fresh, err = s.unknown(ctx, archive)
	if err != nil {
		return nil, err
	}
	run.Logf(ctx, "%s: archive page at %d found %d new of %d", name, offset, len(fresh), len(archive))
	return fresh, nil
}

// unknown filters out bills already stored, using one bulk lookup.
func (s *Service) unknown(ctx context.Context, bills []domain.Bill) ([]domain.Bill, error) {
	if len(bills) == 0 {
		return nil, nil
	}

	ids := make([]string, len(bills))
	for i, b := range bills {
		ids[i] = b.ExternalID
	}
	known, err := s.bills.ExistingExternalIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup known ids: %w", err)
	}

	seen := make(map[string]bool, len(bills))
	var out []domain.Bill
	for _, b := range bills {
		if known[b.ExternalID] || seen[b.ExternalID] {
			continue
		}
		seen[b.ExternalID] = true
		out = append(out, b)
	}
	return out, nil
}

// ingestOne records per-bill failures in sr. It returns an error only when
// the run itself was cancelled.
func (s *Service) ingestOne(ctx context.Context, run *batch.Run, src Source, bill domain.Bill, sr *SourceResult) error {
	id := bill.ExternalID

	text, err := src.FetchBillText(ctx, id)
	if err != nil {
		sr.Failed = append(sr.Failed, id)
		run.Warnf(ctx, "%s: fetch text failed: %v", id, err)
		return nil
	}
	if text == "" {
		sr.Skipped = append(sr.Skipped, id)
		run.Logf(ctx, "%s: no text available yet, skipped", id)
		return nil
	}

	article, err := s.synth.Synthesize(ctx, synthesis.Input{Bill: bill, Text: text, Context: s.background(ctx, run, bill)})
	if err != nil {
		sr.Failed = append(sr.Failed, id)
		run.Warnf(ctx, "%s: synthesis failed: %v", id, err)
		if errors.Is(err, domain.ErrRateLimited) && s.cfg.RateLimitBackoff > 0 {
			if err := run.Sleep(ctx, s.cfg.RateLimitBackoff); err != nil {
				return err
			}
		}
		return nil
	}

	now := s.clock.Now().UTC()
	bill.ApplyArticle(article)
	bill.CreatedAt = now
	if bill.Status != nil {
		bill.StatusUpdatedAt = &now
	}

	if _, err := s.bills.Create(ctx, bill); err != nil {
		sr.Failed = append(sr.Failed, id)
		run.Warnf(ctx, "%s: store failed: %v", id, err)
		return nil
	}

	sr.Created = append(sr.Created, id)
	run.Logf(ctx, "%s: published %q", id, article.Slug)
	return nil
}

// background collects the context lines sent along with the bill text.
// A failing context source contributes nothing.
func (s *Service) background(ctx context.Context, run *batch.Run, bill domain.Bill) []string {
	var lines []string
	if bill.Status != nil {
		lines = append(lines, "Current status: "+bill.Status.String())
	}
	for _, src := range s.contexts {
		more, err := src.Background(ctx, bill)
		if err != nil {
			run.Warnf(ctx, "%s: %s context unavailable: %v", bill.ExternalID, src.Name(), err)
			continue
		}
		lines = append(lines, more...)
	}
	return lines
}
