package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/danieljhkim/stripdb/internal/clock"
	"github.com/danieljhkim/stripdb/internal/dumper"
	"github.com/danieljhkim/stripdb/internal/logger"
	"github.com/danieljhkim/stripdb/internal/planner"
)

// Strip plans the redaction and writes the two exports.
//
// The exports run strictly in order. If the first one fails the second is
// never started; if the second one fails the first file is removed again,
// since it is not a usable dump on its own. On error the returned result
// still carries whatever was computed, such as the plan.
func (e *Engine) Strip(ctx context.Context, req *StripRequest) (*StripResult, error) {
	started := e.clock.Now()
	result, err := e.strip(ctx, req)
	result.StartedAt = started
	result.Elapsed = clock.Since(e.clock, started)
	return result, err
}

func (e *Engine) strip(ctx context.Context, req *StripRequest) (*StripResult, error) {
	plan, err := e.planner.Plan(ctx, req.Categories, e.probe, req.Prefix)
	if err != nil {
		return &StripResult{Plan: plan}, err
	}
	logger.Info("planned redaction", "tables", len(plan.Tables), "providers", plan.Providers)

	inventory, err := e.inventory.ListTables(ctx)
	if err != nil {
		return &StripResult{Plan: plan}, err
	}

	keep, redact, missing := Partition(inventory, plan)
	base, ext := SplitBasename(req.Basename, e.newID)
	dataFile, structureFile := OutputNames(base, ext)

	result := &StripResult{
		Plan:          plan,
		Keep:          keep,
		Redact:        redact,
		Missing:       missing,
		DataFile:      dataFile,
		StructureFile: structureFile,
		DryRun:        req.DryRun,
	}
	for _, table := range missing {
		logger.Warn("planned table not found in database", "table", table)
	}

	if len(redact) == 0 {
		return result, fmt.Errorf("%w: none of the %d planned tables exist in the database", planner.ErrNoTablesSelected, len(plan.Tables))
	}
	if len(keep) == 0 {
		return result, ErrEmptyKeepSet
	}
	if req.DryRun {
		return result, nil
	}

	if !req.Force {
		for _, path := range []string{dataFile, structureFile} {
			exists, err := e.fs.Exists(path)
			if err != nil {
				return result, fmt.Errorf("failed to check %s: %w", path, err)
			}
			if exists {
				return result, fmt.Errorf("%w: %s", ErrOutputExists, path)
			}
		}
	}

	if result.DataChecksum, err = e.export(ctx, dataFile, dumper.Request{
		Tables: keep,
		Extra:  req.Extra,
	}); err != nil {
		return result, err
	}

	if result.StructureChecksum, err = e.export(ctx, structureFile, dumper.Request{
		Tables: redact,
		Where:  dumper.StructureOnlyWhere,
		Extra:  req.Extra,
	}); err != nil {
		if rmErr := e.fs.Remove(dataFile); rmErr != nil {
			logger.Warn("failed to remove incomplete export", "file", dataFile, "err", rmErr)
		}
		result.DataChecksum = ""
		return result, err
	}

	return result, nil
}

// export streams one dump into path, committing the file only on success,
// and returns the checksum of the written file.
func (e *Engine) export(ctx context.Context, path string, req dumper.Request) (string, error) {
	out, err := e.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	logger.Info("exporting", "file", path, "tables", len(req.Tables), "where", req.Where)
	if err := e.exporter.Export(ctx, out, req); err != nil {
		if abortErr := out.Abort(); abortErr != nil {
			err = errors.Join(err, abortErr)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrExportFailed, path, err)
	}

	if err := out.Commit(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	// A missing checksum does not make the export unusable.
	sum, err := e.hasher.HashFile(path)
	if err != nil {
		logger.Warn("failed to checksum export", "file", path, "err", err)
		return "", nil
	}
	return sum, nil
}
