package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	fsstorage "github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/storage"
	"github.com/Dcavise/SEEK-sub001/modules/foia/services"
	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
	"github.com/Dcavise/SEEK-sub001/pkg/configuration"
	"github.com/Dcavise/SEEK-sub001/pkg/eventbus"
	"github.com/Dcavise/SEEK-sub001/pkg/logging"

	foiapersistence "github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/persistence"
	registrypersistence "github.com/Dcavise/SEEK-sub001/modules/registry/infrastructure/persistence"
)

var (
	requiredColumns = []string{"address"}
	allowedColumns  = []string{
		"address", "city", "state", "zip",
		"fire_sprinklers", "zoned_by_right", "occupancy_class",
	}
)

type importCmdOptions struct {
	input string
	apply bool
}

func newImportCmd() *cobra.Command {
	var opts importCmdOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a FOIA compliance CSV (dry-run by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Input CSV file (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply updates to the registry (default is dry-run)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runImport(ctx context.Context, opts importCmdOptions) error {
	records, err := readSourceRecords(opts.input)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return withCode(exitValidation, fmt.Errorf("%s: no data rows", opts.input))
	}

	ctx, pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !opts.apply {
		return dryRunImport(ctx, records)
	}
	return applyImport(ctx, opts.input, records)
}

// dryRunImport matches every record against the registry and prints the
// outcomes without creating a session or touching any table.
func dryRunImport(ctx context.Context, records []matching.SourceRecord) error {
	conf := configuration.Use()
	registry := registrypersistence.NewPropertyRepository()
	entries, err := registry.ListAddresses(ctx)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("load registry addresses: %w", err))
	}
	snap := matching.NewRegistrySnapshot(registryEntries(entries))
	matcher := matching.NewMatcher(conf.FOIA.MinConfidence, conf.FOIA.AmbiguityTolerance)

	counts := map[matching.Status]int{}
	for _, rec := range records {
		res := matcher.Match(rec, snap)
		counts[res.Status]++
		line := map[string]any{
			"record_ref": res.RecordRef,
			"address":    res.SourceAddress,
			"status":     res.Status,
		}
		if res.Confidence != nil {
			line["confidence"] = *res.Confidence
		}
		if res.PropertyID != nil {
			line["property_id"] = res.PropertyID.String()
		}
		if res.ErrorReason != nil {
			line["reason"] = *res.ErrorReason
		}
		if err := writeJSONLine(line); err != nil {
			return err
		}
	}
	return writeJSONLine(map[string]any{
		"dry_run":   true,
		"total":     len(records),
		"matched":   counts[matching.StatusMatched],
		"ambiguous": counts[matching.StatusAmbiguous],
		"unmatched": counts[matching.StatusUnmatched],
	})
}

func applyImport(ctx context.Context, input string, records []matching.SourceRecord) error {
	conf := configuration.Use()
	// stderr logger keeps the JSON result on stdout parseable
	logger := logging.ConsoleLogger(conf.LogrusLogLevel())
	bus := eventbus.NewEventPublisher(logger)

	registry := registrypersistence.NewPropertyRepository()
	sessionRepo := foiapersistence.NewSessionRepository()
	matchRepo := foiapersistence.NewMatchResultRepository()
	updateRepo := foiapersistence.NewFOIAUpdateRepository()

	sessions := services.NewSessionService(sessionRepo, bus)
	executor := services.NewUpdateExecutor(
		sessionRepo, matchRepo, updateRepo, registry,
		conf.FOIA.AuditRetryAttempts, logger,
	)
	orchestrator := services.NewImportOrchestrator(
		sessions,
		fsstorage.NewFSStore(conf.UploadsPath),
		registry,
		matchRepo,
		executor,
		matching.NewMatcher(conf.FOIA.MinConfidence, conf.FOIA.AmbiguityTolerance),
		bus,
		logger,
	)

	f, err := os.Open(input)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("open %s: %w", input, err))
	}
	defer f.Close()

	obs := services.ProgressObserverFunc(func(e services.ProgressEvent) {
		_ = writeJSONLine(map[string]any{
			"session_id": e.SessionID.String(),
			"stage":      e.Stage,
			"progress":   e.Progress,
			"message":    e.Message,
		})
	})

	result, err := orchestrator.Run(ctx, services.ImportFile{
		Filename:         filepath.Base(input),
		OriginalFilename: filepath.Base(input),
		Content:          f,
	}, records, obs)
	if err != nil {
		return withCode(exitDBWrite, err)
	}
	return writeJSONLine(result)
}

func readSourceRecords(path string) ([]matching.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	r := newCSVReader(f)
	header, err := readHeader(r)
	if err != nil {
		return nil, withCode(exitValidation, fmt.Errorf("%s: %w", path, err))
	}
	if err := requireHeader(header, requiredColumns, allowedColumns); err != nil {
		return nil, withCode(exitValidation, fmt.Errorf("%s: %w", path, err))
	}
	idx := headerIndex(header)

	var records []matching.SourceRecord
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, withCode(exitValidation, fmt.Errorf("%s line %d: %w", path, line+1, err))
		}
		line++
		records = append(records, matching.SourceRecord{
			RecordRef: strconv.Itoa(line),
			Address:   cell(row, idx, "address"),
			City:      cell(row, idx, "city"),
			State:     cell(row, idx, "state"),
			Zip:       cell(row, idx, "zip"),
			Compliance: matching.ComplianceValues{
				FireSprinklers: complianceCell(row, idx, property.FieldFireSprinklers),
				ZonedByRight:   complianceCell(row, idx, property.FieldZonedByRight),
				OccupancyClass: complianceCell(row, idx, property.FieldOccupancyClass),
			},
		})
	}
	return records, nil
}

func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// complianceCell treats an absent column and an empty cell the same way:
// the record does not carry the field.
func complianceCell(row []string, idx map[string]int, name string) *string {
	v := cell(row, idx, name)
	if v == "" {
		return nil
	}
	return &v
}

func registryEntries(entries []property.AddressEntry) []matching.RegistryEntry {
	out := make([]matching.RegistryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, matching.RegistryEntry{PropertyID: e.PropertyID, Address: e.Address})
	}
	return out
}
