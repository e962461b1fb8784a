// Package handler exposes the candidate lifecycle over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"wasl/internal/batch"
	"wasl/internal/departure"
	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/service"
	"wasl/internal/screening"
	"wasl/internal/training"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/httputil"
	"wasl/pkg/requestcontext"
)

// Service is the lifecycle surface the handler drives.
type Service interface {
	CreateCandidate(ctx context.Context, in service.CreateCandidateInput) (*lifecycle.Candidate, error)
	GetCandidate(ctx context.Context, candidateID id.CandidateID) (*lifecycle.Candidate, error)
	ListCandidates(ctx context.Context, filter lifecycle.CandidateFilter) ([]lifecycle.Candidate, error)
	AssignPlacement(ctx context.Context, candidateID id.CandidateID, in service.PlacementInput) (*lifecycle.Candidate, error)
	GetProgress(ctx context.Context, candidateID id.CandidateID) (*service.Progress, error)
	StatusReport(ctx context.Context) (map[lifecycle.Status]int, error)

	Transition(ctx context.Context, candidateID id.CandidateID, target string, payload lifecycle.Payload) (lifecycle.Result, error)
	BulkAssignBatch(ctx context.Context, batchID id.BatchID, candidateIDs []id.CandidateID) (service.BulkResult, error)

	UploadDocument(ctx context.Context, candidateID id.CandidateID, in service.UploadDocumentInput) (*documents.Document, error)
	VerifyDocument(ctx context.Context, candidateID id.CandidateID, documentID id.DocumentID) (*documents.Document, error)
	RejectDocument(ctx context.Context, candidateID id.CandidateID, documentID id.DocumentID, reason string) (*documents.Document, error)

	RecordScreening(ctx context.Context, candidateID id.CandidateID, screeningType, status, remarks string) (*screening.Screening, error)
	RecordCallAttempt(ctx context.Context, candidateID id.CandidateID) (screening.AttemptResult, error)

	RecordAttendance(ctx context.Context, candidateID id.CandidateID, date time.Time, present bool) (*training.Attendance, error)
	RecordAssessment(ctx context.Context, candidateID id.CandidateID, assessmentType string, score, total decimal.Decimal) (*training.Assessment, error)
	IssueCertificate(ctx context.Context, candidateID id.CandidateID) (service.CertificateResult, error)

	UpdateVisaStage(ctx context.Context, candidateID id.CandidateID, stage, status, value string) (*visa.Process, error)

	RecordDeparture(ctx context.Context, candidateID id.CandidateID, in service.DepartureInput) (*departure.Departure, error)
	CompleteBriefing(ctx context.Context, candidateID id.CandidateID) (*departure.Departure, error)
	RecordRemittance(ctx context.Context, candidateID id.CandidateID, in service.RemittanceInput) (*departure.Remittance, error)

	CreateBatch(ctx context.Context, in service.CreateBatchInput) (*batch.Batch, error)
	GetBatch(ctx context.Context, batchID id.BatchID) (*batch.Batch, error)
	ListBatches(ctx context.Context) ([]batch.Batch, error)
	ResizeBatch(ctx context.Context, batchID id.BatchID, capacity int) (*batch.Batch, error)
}

// Handler wires lifecycle endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the lifecycle endpoints on r. Authentication is the
// caller's concern.
func (h *Handler) Register(r chi.Router) {
	r.Route("/candidates", func(r chi.Router) {
		r.Post("/", h.HandleCreateCandidate)
		r.Get("/", h.HandleListCandidates)

		r.Route("/{candidateID}", func(r chi.Router) {
			r.Get("/", h.HandleGetCandidate)
			r.Put("/placement", h.HandleAssignPlacement)
			r.Get("/progress", h.HandleGetProgress)
			r.Post("/transitions", h.HandleTransition)

			r.Post("/documents", h.HandleUploadDocument)
			r.Post("/documents/{documentID}/verify", h.HandleVerifyDocument)
			r.Post("/documents/{documentID}/reject", h.HandleRejectDocument)

			r.Post("/screenings/call/attempts", h.HandleCallAttempt)
			r.Put("/screenings/{type}", h.HandleRecordScreening)

			r.Post("/attendance", h.HandleRecordAttendance)
			r.Post("/assessments", h.HandleRecordAssessment)
			r.Post("/certificate", h.HandleIssueCertificate)

			r.Put("/visa/{stage}", h.HandleUpdateVisaStage)

			r.Put("/departure", h.HandleRecordDeparture)
			r.Post("/departure/briefing", h.HandleCompleteBriefing)
			r.Post("/remittances", h.HandleRecordRemittance)
		})
	})

	r.Route("/batches", func(r chi.Router) {
		r.Post("/", h.HandleCreateBatch)
		r.Get("/", h.HandleListBatches)
		r.Get("/{batchID}", h.HandleGetBatch)
		r.Patch("/{batchID}/capacity", h.HandleResizeBatch)
		r.Post("/{batchID}/assign", h.HandleBulkAssign)
	})

	r.Get("/reports/status", h.HandleStatusReport)
}

// HandleCreateCandidate handles POST /candidates.
func (h *Handler) HandleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateCandidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.service.CreateCandidate(ctx, req.Input())
	if err != nil {
		h.fail(ctx, w, "create candidate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromCandidate(c))
}

// HandleListCandidates handles GET /candidates?status=&batch_id=&limit=.
func (h *Handler) HandleListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := parseCandidateFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.service.ListCandidates(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "list candidates", err)
		return
	}
	resp := make([]*CandidateResponse, 0, len(out))
	for i := range out {
		resp = append(resp, FromCandidate(&out[i]))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	c, err := h.service.GetCandidate(ctx, candidateID)
	if err != nil {
		h.fail(ctx, w, "get candidate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCandidate(c))
}

func (h *Handler) HandleAssignPlacement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PlacementRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.AssignPlacement(ctx, candidateID, req.Input())
	if err != nil {
		h.fail(ctx, w, "assign placement", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCandidate(c))
}

// HandleGetProgress handles GET /candidates/{candidateID}/progress.
func (h *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetProgress(ctx, candidateID)
	if err != nil {
		h.fail(ctx, w, "get progress", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// HandleTransition handles POST /candidates/{candidateID}/transitions. A
// guard rejection is a 422 carrying the issues, not an error body.
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[TransitionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Transition(ctx, candidateID, req.Target, req.Payload())
	if err != nil {
		h.fail(ctx, w, "transition", err)
		return
	}

	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	h.logger.InfoContext(ctx, "transition handled",
		"request_id", requestID,
		"candidate_id", candidateID.String(),
		"target", req.Target,
		"success", res.Success,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, status, FromResult(res))
}

func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UploadDocumentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	doc, err := h.service.UploadDocument(ctx, candidateID, req.Input())
	if err != nil {
		h.fail(ctx, w, "upload document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *Handler) HandleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, documentID, ok := pathDocumentIDs(w, r)
	if !ok {
		return
	}
	doc, err := h.service.VerifyDocument(ctx, candidateID, documentID)
	if err != nil {
		h.fail(ctx, w, "verify document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) HandleRejectDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, documentID, ok := pathDocumentIDs(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RejectDocumentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	doc, err := h.service.RejectDocument(ctx, candidateID, documentID, req.Reason)
	if err != nil {
		h.fail(ctx, w, "reject document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

// HandleRecordScreening handles PUT /candidates/{candidateID}/screenings/{type}.
func (h *Handler) HandleRecordScreening(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ScreeningRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rec, err := h.service.RecordScreening(ctx, candidateID, chi.URLParam(r, "type"), req.Status, req.Remarks)
	if err != nil {
		h.fail(ctx, w, "record screening", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleCallAttempt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	res, err := h.service.RecordCallAttempt(ctx, candidateID)
	if err != nil {
		h.fail(ctx, w, "record call attempt", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AttendanceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	att, err := h.service.RecordAttendance(ctx, candidateID, req.ParsedDate(), *req.Present)
	if err != nil {
		h.fail(ctx, w, "record attendance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, att)
}

func (h *Handler) HandleRecordAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AssessmentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	a, err := h.service.RecordAssessment(ctx, candidateID, req.Type, req.Score, req.TotalMarks)
	if err != nil {
		h.fail(ctx, w, "record assessment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, a)
}

// HandleIssueCertificate handles POST /candidates/{candidateID}/certificate.
// Ineligible candidates get 422 with the blocking issues.
func (h *Handler) HandleIssueCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	res, err := h.service.IssueCertificate(ctx, candidateID)
	if err != nil {
		h.fail(ctx, w, "issue certificate", err)
		return
	}
	status := http.StatusCreated
	if !res.Issued {
		status = http.StatusUnprocessableEntity
	}
	httputil.WriteJSON(w, status, res)
}

// HandleUpdateVisaStage handles PUT /candidates/{candidateID}/visa/{stage}.
func (h *Handler) HandleUpdateVisaStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VisaStageRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.UpdateVisaStage(ctx, candidateID, chi.URLParam(r, "stage"), req.Status, req.Value)
	if err != nil {
		h.fail(ctx, w, "update visa stage", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) HandleRecordDeparture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DepartureRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	d, err := h.service.RecordDeparture(ctx, candidateID, req.Input())
	if err != nil {
		h.fail(ctx, w, "record departure", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) HandleCompleteBriefing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	d, err := h.service.CompleteBriefing(ctx, candidateID)
	if err != nil {
		h.fail(ctx, w, "complete briefing", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) HandleRecordRemittance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RemittanceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	rem, err := h.service.RecordRemittance(ctx, candidateID, req.Input())
	if err != nil {
		h.fail(ctx, w, "record remittance", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rem)
}

func (h *Handler) HandleCreateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateBatchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	b, err := h.service.CreateBatch(ctx, req.Input())
	if err != nil {
		h.fail(ctx, w, "create batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) HandleListBatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.ListBatches(ctx)
	if err != nil {
		h.fail(ctx, w, "list batches", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGetBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID, ok := pathBatchID(w, r)
	if !ok {
		return
	}
	b, err := h.service.GetBatch(ctx, batchID)
	if err != nil {
		h.fail(ctx, w, "get batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) HandleResizeBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchID, ok := pathBatchID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ResizeBatchRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	b, err := h.service.ResizeBatch(ctx, batchID, req.Capacity)
	if err != nil {
		h.fail(ctx, w, "resize batch", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, b)
}

// HandleBulkAssign handles POST /batches/{batchID}/assign. Per-candidate
// outcomes are in the body; the request itself succeeds.
func (h *Handler) HandleBulkAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	batchID, ok := pathBatchID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[BulkAssignRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.BulkAssignBatch(ctx, batchID, req.ParsedCandidateIDs())
	if err != nil {
		h.fail(ctx, w, "bulk assign", err)
		return
	}
	h.logger.InfoContext(ctx, "bulk assignment handled",
		"request_id", requestID,
		"batch_id", batchID.String(),
		"succeeded", res.Succeeded,
		"failed", res.Failed,
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleStatusReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := h.service.StatusReport(ctx)
	if err != nil {
		h.fail(ctx, w, "status report", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStatusReport(counts))
}

// fail logs at a level matching the error class and writes the response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"error", err,
	}
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "lifecycle request failed", attrs...)
	} else {
		h.logger.WarnContext(ctx, "lifecycle request rejected", attrs...)
	}
	httputil.WriteError(w, err)
}

func pathCandidateID(w http.ResponseWriter, r *http.Request) (id.CandidateID, bool) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CandidateID{}, false
	}
	return candidateID, true
}

func pathDocumentIDs(w http.ResponseWriter, r *http.Request) (id.CandidateID, id.DocumentID, bool) {
	candidateID, ok := pathCandidateID(w, r)
	if !ok {
		return id.CandidateID{}, id.DocumentID{}, false
	}
	documentID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CandidateID{}, id.DocumentID{}, false
	}
	return candidateID, documentID, true
}

func pathBatchID(w http.ResponseWriter, r *http.Request) (id.BatchID, bool) {
	batchID, err := id.ParseBatchID(chi.URLParam(r, "batchID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.BatchID{}, false
	}
	return batchID, true
}

const maxListLimit = 500

func parseCandidateFilter(r *http.Request) (lifecycle.CandidateFilter, error) {
	q := r.URL.Query()
	var filter lifecycle.CandidateFilter
	if s := q.Get("status"); s != "" {
		st, err := lifecycle.ParseStatus(s)
		if err != nil {
			return filter, err
		}
		filter.Status = st
	}
	if s := q.Get("batch_id"); s != "" {
		batchID, err := id.ParseBatchID(s)
		if err != nil {
			return filter, err
		}
		filter.BatchID = batchID
	}
	filter.Limit = 100
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxListLimit {
			return filter, dErrors.Newf(dErrors.CodeValidation, "limit must be between 1 and %d", maxListLimit)
		}
		filter.Limit = n
	}
	return filter, nil
}
