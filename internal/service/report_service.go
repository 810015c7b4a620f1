package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/gemini"
	"github.com/edusight/gradescan-backend/internal/model"
)

// Extractor turns an uploaded document into structured student records.
// The production implementation lives in the gemini package; tests
// substitute fakes.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mediaType string) ([]model.StudentRecord, error)
}

// ReportWriter persists an analyzed report as a spreadsheet and returns
// the written path.
type ReportWriter interface {
	Write(summaries []model.StudentSummary, records []model.StudentRecord) (string, error)
}

// ReportService runs the analysis pipeline: extract, aggregate and,
// when exporting, persist.
type ReportService struct {
	extractor Extractor
	writer    ReportWriter
	log       zerolog.Logger
}

// NewReportService creates a ReportService.
func NewReportService(extractor Extractor, writer ReportWriter, log zerolog.Logger) *ReportService {
	return &ReportService{
		extractor: extractor,
		writer:    writer,
		log:       log.With().Str("component", "report_service").Logger(),
	}
}

// Analyze extracts records from the document and returns full-precision
// means alongside the raw records.
func (s *ReportService) Analyze(ctx context.Context, data []byte, mediaType string) (*model.AnalysisResult, error) {
	records, err := s.extractor.Extract(ctx, data, mediaType)
	if err != nil {
		return nil, classifyExtraction(err)
	}

	summaries, err := summarize(records)
	if err != nil {
		return nil, &Failure{Kind: KindAggregation, Err: err}
	}

	return &model.AnalysisResult{Payload: summaries, RawData: records}, nil
}

// AnalyzeAndExport runs the same pipeline, rounds both means to two
// decimals, and writes the summary/detail workbook. The written path is
// logged, never returned to the caller.
func (s *ReportService) AnalyzeAndExport(ctx context.Context, data []byte, mediaType string) (*model.AnalysisResult, error) {
	result, err := s.Analyze(ctx, data, mediaType)
	if err != nil {
		return nil, err
	}
	return s.export(result)
}

// Reprocess aggregates previously extracted records and writes a workbook
// without calling the upstream service. Used by the reprocess command on
// saved raw_data dumps.
func (s *ReportService) Reprocess(records []model.StudentRecord) (*model.AnalysisResult, error) {
	summaries, err := summarize(records)
	if err != nil {
		return nil, &Failure{Kind: KindAggregation, Err: err}
	}
	return s.export(&model.AnalysisResult{Payload: summaries, RawData: records})
}

func (s *ReportService) export(result *model.AnalysisResult) (*model.AnalysisResult, error) {
	result.Payload = roundSummaries(result.Payload)

	path, err := s.writer.Write(result.Payload, result.RawData)
	if err != nil {
		return nil, &Failure{Kind: KindPersistence, Err: fmt.Errorf("write workbook: %w", err)}
	}
	s.log.Info().Str("path", path).Int("students", len(result.RawData)).Msg("Report exported")

	return result, nil
}

// classifyExtraction maps adapter errors onto the internal taxonomy.
func classifyExtraction(err error) *Failure {
	var statusErr *gemini.StatusError
	switch {
	case errors.Is(err, gemini.ErrEndpointUnset):
		return &Failure{Kind: KindConfigMissing, Err: err}
	case errors.As(err, &statusErr):
		return &Failure{Kind: KindUpstreamStatus, Err: err}
	case errors.Is(err, gemini.ErrMalformedResponse):
		return &Failure{Kind: KindBadPayload, Err: err}
	default:
		return &Failure{Kind: KindUpstreamDown, Err: err}
	}
}
