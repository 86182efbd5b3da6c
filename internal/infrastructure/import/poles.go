package csvimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Survey columns. capacidad and notas are optional.
const (
	ColumnCode         = "codigo"
	ColumnNeighborhood = "barrio"
	ColumnLat          = "lat"
	ColumnLng          = "lng"
	ColumnCapacity     = "capacidad"
	ColumnNotes        = "notas"
)

// RequiredColumns must appear in the header row
var RequiredColumns = []string{ColumnCode, ColumnNeighborhood, ColumnLat, ColumnLng}

// PoleReport summarizes a survey import
type PoleReport struct {
	Rows     int
	Created  int
	Skipped  int // code already stored
	Encoding string
	Errors   *ErrorCollection
}

// PoleImporter validates a whole survey before writing any pole. A file
// with errors creates nothing.
type PoleImporter struct {
	neighborhoods network.NeighborhoodRepository
	poles         network.PoleRepository
	maxErrors     int
	logger        *zap.Logger
}

// NewPoleImporter creates an importer
func NewPoleImporter(neighborhoods network.NeighborhoodRepository, poles network.PoleRepository, logger *zap.Logger) *PoleImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoleImporter{neighborhoods: neighborhoods, poles: poles, maxErrors: 100, logger: logger}
}

type surveyRow struct {
	line int
	pole *network.Pole
}

// Import reads r and creates the poles it lists. With dryRun nothing is written.
func (i *PoleImporter) Import(ctx context.Context, r io.Reader, dryRun bool, opts ...ParserOption) (*PoleReport, error) {
	parser, err := NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if missing := parser.Missing(RequiredColumns...); len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	report := &PoleReport{Encoding: parser.Encoding(), Errors: NewErrorCollection(i.maxErrors)}
	byName := make(map[string]*network.Neighborhood)
	seen := make(map[string]int)
	var valid []surveyRow

	for {
		row, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			report.Errors.Add(RowError{Line: parser.line, Code: ErrCodeMalformedRow, Message: err.Error()})
			continue
		}
		if row.IsEmpty() {
			continue
		}
		report.Rows++

		pole, skip, err := i.validate(ctx, row, byName, seen, report.Errors)
		if err != nil {
			return nil, err
		}
		if skip {
			report.Skipped++
			continue
		}
		if pole != nil {
			valid = append(valid, surveyRow{line: row.Line, pole: pole})
		}
	}

	if report.Errors.HasErrors() || dryRun {
		return report, nil
	}

	for _, sr := range valid {
		if err := i.poles.Save(ctx, sr.pole); err != nil {
			return report, fmt.Errorf("line %d: %w", sr.line, err)
		}
		report.Created++
	}
	i.logger.Info("Pole survey imported",
		zap.Int("rows", report.Rows),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.String("encoding", report.Encoding))
	return report, nil
}

// validate returns the pole to create, or skip=true when the code is already
// stored. Row problems go to errs; only repository failures are returned.
func (i *PoleImporter) validate(
	ctx context.Context,
	row *Row,
	byName map[string]*network.Neighborhood,
	seen map[string]int,
	errs *ErrorCollection,
) (*network.Pole, bool, error) {
	before := errs.TotalCount()
	for _, col := range RequiredColumns {
		if row.Get(col) == "" {
			errs.AddRequired(row.Line, col)
		}
	}
	if errs.TotalCount() > before {
		return nil, false, nil
	}

	code := strings.ToUpper(row.Get(ColumnCode))
	if first, dup := seen[code]; dup {
		errs.Add(RowError{Line: row.Line, Column: ColumnCode, Code: ErrCodeDuplicateInFile,
			Message: fmt.Sprintf("code also listed on line %d", first), Value: code})
		return nil, false, nil
	}
	seen[code] = row.Line

	lat, latErr := strconv.ParseFloat(row.Get(ColumnLat), 64)
	if latErr != nil {
		errs.AddType(row.Line, ColumnLat, "decimal degrees", row.Get(ColumnLat))
	}
	lng, lngErr := strconv.ParseFloat(row.Get(ColumnLng), 64)
	if lngErr != nil {
		errs.AddType(row.Line, ColumnLng, "decimal degrees", row.Get(ColumnLng))
	}
	capacity := 0
	if raw := row.Get(ColumnCapacity); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs.AddType(row.Line, ColumnCapacity, "integer", raw)
		}
		capacity = n
	}
	if errs.TotalCount() > before {
		return nil, false, nil
	}

	exists, err := i.poles.ExistsByCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, true, nil
	}

	name := row.Get(ColumnNeighborhood)
	n, ok := byName[name]
	if !ok {
		n, err = i.neighborhoods.FindByName(ctx, name)
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add(RowError{Line: row.Line, Column: ColumnNeighborhood, Code: ErrCodeReferenceNotFound,
				Message: "neighborhood not found", Value: name})
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		byName[name] = n
	}

	location := geo.Point{Lat: lat, Lng: lng}
	pole, err := network.NewPole(code, location, n.ID, capacity)
	if err != nil {
		errs.Add(RowError{Line: row.Line, Code: ErrCodeInvalidValue, Message: err.Error()})
		return nil, false, nil
	}
	if !n.Contains(location) {
		errs.Add(RowError{Line: row.Line, Code: ErrCodeOutsideNeighborhood,
			Message: fmt.Sprintf("point %s lies outside %s", location, n.Name)})
		return nil, false, nil
	}
	if notes := row.Get(ColumnNotes); notes != "" {
		if err := pole.Update(notes, n.ID); err != nil {
			errs.Add(RowError{Line: row.Line, Column: ColumnNotes, Code: ErrCodeInvalidValue, Message: err.Error()})
			return nil, false, nil
		}
	}
	return pole, false, nil
}
