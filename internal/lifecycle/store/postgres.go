package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"wasl/internal/batch"
	"wasl/internal/departure"
	"wasl/internal/documents"
	"wasl/internal/lifecycle"
	"wasl/internal/screening"
	"wasl/internal/training"
	"wasl/internal/visa"
	id "wasl/pkg/domain"
	"wasl/pkg/platform/sentinel"
	txcontext "wasl/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists lifecycle data in PostgreSQL. Every method runs on
// the transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) exec(ctx context.Context) txcontext.DBTX {
	return txcontext.Executor(ctx, s.db)
}

func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullable[T ~[16]byte](v T) any {
	if uuid.UUID(v) == uuid.Nil {
		return nil
	}
	return uuid.UUID(v)
}

type rowScanner interface {
	Scan(dest ...any) error
}

const candidateColumns = `id, application_id, national_id, name, phone, district, status, training_status,
	campus_id, trade_id, batch_id, oep_id, remarks, created_at, updated_at, deleted_at`

func scanCandidate(row rowScanner) (*lifecycle.Candidate, error) {
	var (
		c                       lifecycle.Candidate
		cid                     uuid.UUID
		campus, trade, bat, oep uuid.NullUUID
		nationalID, status, ts  string
	)
	if err := row.Scan(&cid, &c.ApplicationID, &nationalID, &c.Name, &c.Phone, &c.District, &status, &ts,
		&campus, &trade, &bat, &oep, &c.Remarks, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
		return nil, err
	}
	c.ID = id.CandidateID(cid)
	c.NationalID = id.NationalID(nationalID)
	c.Status = lifecycle.Status(status)
	c.TrainingStatus = training.Status(ts)
	c.CampusID = id.CampusID(campus.UUID)
	c.TradeID = id.TradeID(trade.UUID)
	c.BatchID = id.BatchID(bat.UUID)
	c.OEPID = id.OEPID(oep.UUID)
	return &c, nil
}

func (s *PostgresStore) CreateCandidate(ctx context.Context, c *lifecycle.Candidate) error {
	query := `INSERT INTO candidates (` + candidateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(c.ID), c.ApplicationID, string(c.NationalID), c.Name, c.Phone, c.District,
		string(c.Status), string(c.TrainingStatus),
		nullable(c.CampusID), nullable(c.TradeID), nullable(c.BatchID), nullable(c.OEPID),
		c.Remarks, c.CreatedAt, c.UpdatedAt, c.DeletedAt,
	)
	return translate(err, "create candidate")
}

func (s *PostgresStore) GetCandidate(ctx context.Context, candidateID id.CandidateID) (*lifecycle.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	c, err := scanCandidate(s.exec(ctx).QueryRowContext(ctx, query, uuid.UUID(candidateID)))
	if err != nil {
		return nil, translate(err, "get candidate")
	}
	return c, nil
}

func (s *PostgresStore) FindCandidateByNationalID(ctx context.Context, nationalID id.NationalID) (*lifecycle.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE national_id = $1`
	c, err := scanCandidate(s.exec(ctx).QueryRowContext(ctx, query, string(nationalID)))
	if err != nil {
		return nil, translate(err, "find candidate by national id")
	}
	return c, nil
}

func (s *PostgresStore) UpdateCandidate(ctx context.Context, c *lifecycle.Candidate) error {
	query := `
		UPDATE candidates SET
			name = $2, phone = $3, district = $4, status = $5, training_status = $6,
			campus_id = $7, trade_id = $8, batch_id = $9, oep_id = $10,
			remarks = $11, updated_at = $12, deleted_at = $13
		WHERE id = $1
	`
	res, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(c.ID), c.Name, c.Phone, c.District, string(c.Status), string(c.TrainingStatus),
		nullable(c.CampusID), nullable(c.TradeID), nullable(c.BatchID), nullable(c.OEPID),
		c.Remarks, c.UpdatedAt, c.DeletedAt,
	)
	if err != nil {
		return translate(err, "update candidate")
	}
	return requireRow(res, "update candidate")
}

func (s *PostgresStore) ListCandidates(ctx context.Context, filter lifecycle.CandidateFilter) ([]lifecycle.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR status = $1)
		  AND ($2::uuid IS NULL OR batch_id = $2)
		ORDER BY created_at
		LIMIT NULLIF($3, 0)`
	rows, err := s.exec(ctx).QueryContext(ctx, query, string(filter.Status), nullable(filter.BatchID), filter.Limit)
	if err != nil {
		return nil, translate(err, "list candidates")
	}
	defer rows.Close()

	out := make([]lifecycle.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (map[lifecycle.Status]int, error) {
	rows, err := s.exec(ctx).QueryContext(ctx,
		`SELECT status, COUNT(*) FROM candidates WHERE deleted_at IS NULL GROUP BY status`)
	if err != nil {
		return nil, translate(err, "count candidates by status")
	}
	defer rows.Close()

	counts := make(map[lifecycle.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[lifecycle.Status(status)] = n
	}
	return counts, rows.Err()
}

func (s *PostgresStore) NextApplicationSequence(ctx context.Context, year int) (int, error) {
	query := `
		INSERT INTO application_sequences (year, last_value) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = application_sequences.last_value + 1
		RETURNING last_value
	`
	var seq int
	if err := s.exec(ctx).QueryRowContext(ctx, query, year).Scan(&seq); err != nil {
		return 0, translate(err, "next application sequence")
	}
	return seq, nil
}

const documentColumns = `id, candidate_id, item, file_ref, status, rejection_reason, expires_at, verified_at, uploaded_at`

func scanDocument(row rowScanner) (*documents.Document, error) {
	var (
		d          documents.Document
		did, cid   uuid.UUID
		item, stat string
	)
	if err := row.Scan(&did, &cid, &item, &d.FileRef, &stat, &d.RejectionReason, &d.ExpiresAt, &d.VerifiedAt, &d.UploadedAt); err != nil {
		return nil, err
	}
	d.ID = id.DocumentID(did)
	d.CandidateID = id.CandidateID(cid)
	d.Item = documents.ItemCode(item)
	d.Status = documents.VerificationStatus(stat)
	return &d, nil
}

func (s *PostgresStore) SaveDocument(ctx context.Context, d *documents.Document) error {
	query := `INSERT INTO candidate_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			rejection_reason = EXCLUDED.rejection_reason,
			expires_at = EXCLUDED.expires_at,
			verified_at = EXCLUDED.verified_at`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(d.ID), uuid.UUID(d.CandidateID), string(d.Item), d.FileRef, string(d.Status),
		d.RejectionReason, d.ExpiresAt, d.VerifiedAt, d.UploadedAt,
	)
	return translate(err, "save document")
}

func (s *PostgresStore) GetDocument(ctx context.Context, candidateID id.CandidateID, documentID id.DocumentID) (*documents.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM candidate_documents WHERE id = $1 AND candidate_id = $2`
	d, err := scanDocument(s.exec(ctx).QueryRowContext(ctx, query, uuid.UUID(documentID), uuid.UUID(candidateID)))
	if err != nil {
		return nil, translate(err, "get document")
	}
	return d, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, candidateID id.CandidateID) ([]documents.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM candidate_documents WHERE candidate_id = $1 ORDER BY uploaded_at`
	rows, err := s.exec(ctx).QueryContext(ctx, query, uuid.UUID(candidateID))
	if err != nil {
		return nil, translate(err, "list documents")
	}
	defer rows.Close()

	out := make([]documents.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

const screeningColumns = `candidate_id, type, status, remarks, call_attempts, screened_at, updated_at`

func scanScreening(row rowScanner) (*screening.Screening, error) {
	var (
		rec        screening.Screening
		cid        uuid.UUID
		kind, stat string
	)
	if err := row.Scan(&cid, &kind, &stat, &rec.Remarks, &rec.CallAttempts, &rec.ScreenedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.CandidateID = id.CandidateID(cid)
	rec.Type = screening.Type(kind)
	rec.Status = screening.Status(stat)
	return &rec, nil
}

func (s *PostgresStore) GetScreening(ctx context.Context, candidateID id.CandidateID, t screening.Type) (*screening.Screening, error) {
	query := `SELECT ` + screeningColumns + ` FROM screenings WHERE candidate_id = $1 AND type = $2`
	rec, err := scanScreening(s.exec(ctx).QueryRowContext(ctx, query, uuid.UUID(candidateID), string(t)))
	if err != nil {
		return nil, translate(err, "get screening")
	}
	return rec, nil
}

func (s *PostgresStore) SaveScreening(ctx context.Context, rec *screening.Screening) error {
	query := `INSERT INTO screenings (` + screeningColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (candidate_id, type) DO UPDATE SET
			status = EXCLUDED.status,
			remarks = EXCLUDED.remarks,
			call_attempts = EXCLUDED.call_attempts,
			screened_at = EXCLUDED.screened_at,
			updated_at = EXCLUDED.updated_at`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(rec.CandidateID), string(rec.Type), string(rec.Status), rec.Remarks,
		rec.CallAttempts, rec.ScreenedAt, rec.UpdatedAt,
	)
	return translate(err, "save screening")
}

func (s *PostgresStore) ListScreenings(ctx context.Context, candidateID id.CandidateID) ([]screening.Screening, error) {
	query := `SELECT ` + screeningColumns + ` FROM screenings WHERE candidate_id = $1
		ORDER BY array_position(ARRAY['desk', 'call', 'physical'], type)`
	rows, err := s.exec(ctx).QueryContext(ctx, query, uuid.UUID(candidateID))
	if err != nil {
		return nil, translate(err, "list screenings")
	}
	defer rows.Close()

	out := make([]screening.Screening, 0, len(screening.RequiredTypes))
	for rows.Next() {
		rec, err := scanScreening(rows)
		if err != nil {
			return nil, fmt.Errorf("scan screening: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

const batchColumns = `id, code, campus_id, trade_id, capacity, enrollment_count, start_date, end_date, created_at, updated_at`

func scanBatch(row rowScanner) (*batch.Batch, error) {
	var (
		b             batch.Batch
		bid           uuid.UUID
		campus, trade uuid.NullUUID
		start, end    sql.NullTime
	)
	if err := row.Scan(&bid, &b.Code, &campus, &trade, &b.Capacity, &b.EnrollmentCount, &start, &end, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.ID = id.BatchID(bid)
	b.CampusID = id.CampusID(campus.UUID)
	b.TradeID = id.TradeID(trade.UUID)
	b.StartDate = start.Time
	b.EndDate = end.Time
	return &b, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func (s *PostgresStore) CreateBatch(ctx context.Context, b *batch.Batch) error {
	query := `INSERT INTO batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(b.ID), b.Code, nullable(b.CampusID), nullable(b.TradeID), b.Capacity, b.EnrollmentCount,
		nullTime(b.StartDate), nullTime(b.EndDate), b.CreatedAt, b.UpdatedAt,
	)
	return translate(err, "create batch")
}

func (s *PostgresStore) GetBatch(ctx context.Context, batchID id.BatchID) (*batch.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	b, err := scanBatch(s.exec(ctx).QueryRowContext(ctx, query, uuid.UUID(batchID)))
	if err != nil {
		return nil, translate(err, "get batch")
	}
	return b, nil
}

func (s *PostgresStore) ListBatches(ctx context.Context) ([]batch.Batch, error) {
	rows, err := s.exec(ctx).QueryContext(ctx, `SELECT `+batchColumns+` FROM batches ORDER BY code`)
	if err != nil {
		return nil, translate(err, "list batches")
	}
	defer rows.Close()

	out := make([]batch.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// IncrementEnrollment takes a seat with one conditional UPDATE so concurrent
// enrollments can never push the count past capacity. A zero-row update is
// reported as a capacity error and leaves the surrounding transaction usable.
func (s *PostgresStore) IncrementEnrollment(ctx context.Context, batchID id.BatchID, now time.Time) error {
	query := `
		UPDATE batches
		SET enrollment_count = enrollment_count + 1, updated_at = $2
		WHERE id = $1 AND enrollment_count < capacity
	`
	res, err := s.exec(ctx).ExecContext(ctx, query, uuid.UUID(batchID), now)
	if err != nil {
		return translate(err, "increment enrollment")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment enrollment rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	b, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}
	return &batch.CapacityExceededError{BatchID: b.ID, Code: b.Code, Capacity: b.Capacity}
}

func (s *PostgresStore) ResizeBatch(ctx context.Context, batchID id.BatchID, capacity int, now time.Time) (*batch.Batch, error) {
	query := `
		UPDATE batches SET capacity = $2, updated_at = $3
		WHERE id = $1 AND enrollment_count <= $2
		RETURNING ` + batchColumns
	b, err := scanBatch(s.exec(ctx).QueryRowContext(ctx, query, uuid.UUID(batchID), capacity, now))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, translate(err, "resize batch")
	}
	if _, getErr := s.GetBatch(ctx, batchID); getErr != nil {
		return nil, getErr
	}
	return nil, sentinel.ErrInvalidState
}

func (s *PostgresStore) GetTraining(ctx context.Context, candidateID id.CandidateID) (*training.Training, error) {
	var (
		t        training.Training
		cid, bid uuid.UUID
		status   string
	)
	err := s.exec(ctx).QueryRowContext(ctx,
		`SELECT candidate_id, batch_id, status, started_at, completed_at FROM trainings WHERE candidate_id = $1`,
		uuid.UUID(candidateID),
	).Scan(&cid, &bid, &status, &t.StartedAt, &t.CompletedAt)
	if err != nil {
		return nil, translate(err, "get training")
	}
	t.CandidateID = id.CandidateID(cid)
	t.BatchID = id.BatchID(bid)
	t.Status = training.Status(status)
	return &t, nil
}

func (s *PostgresStore) SaveTraining(ctx context.Context, t *training.Training) error {
	query := `
		INSERT INTO trainings (candidate_id, batch_id, status, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (candidate_id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at
	`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(t.CandidateID), uuid.UUID(t.BatchID), string(t.Status), t.StartedAt, t.CompletedAt)
	return translate(err, "save training")
}

func (s *PostgresStore) UpsertAttendance(ctx context.Context, a training.Attendance) error {
	query := `
		INSERT INTO training_attendance (candidate_id, batch_id, date, present)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (candidate_id, date) DO UPDATE SET present = EXCLUDED.present
	`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(a.CandidateID), uuid.UUID(a.BatchID), a.Date.Format(time.DateOnly), a.Present)
	return translate(err, "upsert attendance")
}

func (s *PostgresStore) ListAttendance(ctx context.Context, candidateID id.CandidateID) ([]training.Attendance, error) {
	rows, err := s.exec(ctx).QueryContext(ctx,
		`SELECT candidate_id, batch_id, date, present FROM training_attendance WHERE candidate_id = $1 ORDER BY date`,
		uuid.UUID(candidateID))
	if err != nil {
		return nil, translate(err, "list attendance")
	}
	defer rows.Close()

	out := make([]training.Attendance, 0)
	for rows.Next() {
		var (
			a        training.Attendance
			cid, bid uuid.UUID
		)
		if err := rows.Scan(&cid, &bid, &a.Date, &a.Present); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		a.CandidateID = id.CandidateID(cid)
		a.BatchID = id.BatchID(bid)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AddAssessment(ctx context.Context, a *training.Assessment) error {
	query := `
		INSERT INTO training_assessments
			(candidate_id, batch_id, type, score, total_marks, pass_percentage, result, assessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(a.CandidateID), uuid.UUID(a.BatchID), string(a.Type),
		a.Score, a.TotalMarks, a.PassPercentage, string(a.Result), a.AssessedAt)
	return translate(err, "add assessment")
}

func (s *PostgresStore) ListAssessments(ctx context.Context, candidateID id.CandidateID) ([]training.Assessment, error) {
	query := `
		SELECT candidate_id, batch_id, type, score, total_marks, pass_percentage, result, assessed_at
		FROM training_assessments WHERE candidate_id = $1 ORDER BY assessed_at, id
	`
	rows, err := s.exec(ctx).QueryContext(ctx, query, uuid.UUID(candidateID))
	if err != nil {
		return nil, translate(err, "list assessments")
	}
	defer rows.Close()

	out := make([]training.Assessment, 0)
	for rows.Next() {
		var (
			a            training.Assessment
			cid, bid     uuid.UUID
			kind, result string
		)
		if err := rows.Scan(&cid, &bid, &kind, &a.Score, &a.TotalMarks, &a.PassPercentage, &result, &a.AssessedAt); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a.CandidateID = id.CandidateID(cid)
		a.BatchID = id.BatchID(bid)
		a.Type = training.AssessmentType(kind)
		a.Result = training.Result(result)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetCertificate(ctx context.Context, candidateID id.CandidateID) (*training.Certificate, error) {
	var (
		c        training.Certificate
		cid, bid uuid.UUID
	)
	err := s.exec(ctx).QueryRowContext(ctx,
		`SELECT candidate_id, batch_id, number, issued_at FROM training_certificates WHERE candidate_id = $1`,
		uuid.UUID(candidateID),
	).Scan(&cid, &bid, &c.Number, &c.IssuedAt)
	if err != nil {
		return nil, translate(err, "get certificate")
	}
	c.CandidateID = id.CandidateID(cid)
	c.BatchID = id.BatchID(bid)
	return &c, nil
}

func (s *PostgresStore) CreateCertificate(ctx context.Context, cert *training.Certificate) error {
	_, err := s.exec(ctx).ExecContext(ctx,
		`INSERT INTO training_certificates (candidate_id, batch_id, number, issued_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(cert.CandidateID), uuid.UUID(cert.BatchID), cert.Number, cert.IssuedAt)
	return translate(err, "create certificate")
}

func (s *PostgresStore) NextCertificateSequence(ctx context.Context, batchID id.BatchID) (int, error) {
	query := `
		INSERT INTO certificate_sequences (batch_id, last_value) VALUES ($1, 1)
		ON CONFLICT (batch_id) DO UPDATE SET last_value = certificate_sequences.last_value + 1
		RETURNING last_value
	`
	var seq int
	if err := s.exec(ctx).QueryRowContext(ctx, query, uuid.UUID(batchID)).Scan(&seq); err != nil {
		return 0, translate(err, "next certificate sequence")
	}
	return seq, nil
}

func (s *PostgresStore) GetVisaProcess(ctx context.Context, candidateID id.CandidateID) (*visa.Process, error) {
	var (
		p                                                       visa.Process
		cid                                                     uuid.UUID
		interview, takamol, medical, biometric, eNumber, status string
	)
	err := s.exec(ctx).QueryRowContext(ctx, `
		SELECT candidate_id, interview_status, takamol_status, medical_status, biometric_status,
			e_number_status, visa_status, e_number, visa_number, created_at, updated_at
		FROM visa_processes WHERE candidate_id = $1`,
		uuid.UUID(candidateID),
	).Scan(&cid, &interview, &takamol, &medical, &biometric, &eNumber, &status,
		&p.ENumber, &p.VisaNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err, "get visa process")
	}
	p.CandidateID = id.CandidateID(cid)
	p.InterviewStatus = visa.StageStatus(interview)
	p.TakamolStatus = visa.StageStatus(takamol)
	p.MedicalStatus = visa.StageStatus(medical)
	p.BiometricStatus = visa.StageStatus(biometric)
	p.ENumberStatus = visa.StageStatus(eNumber)
	p.VisaStatus = visa.StageStatus(status)
	return &p, nil
}

func (s *PostgresStore) SaveVisaProcess(ctx context.Context, p *visa.Process) error {
	query := `
		INSERT INTO visa_processes (candidate_id, interview_status, takamol_status, medical_status,
			biometric_status, e_number_status, visa_status, e_number, visa_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (candidate_id) DO UPDATE SET
			interview_status = EXCLUDED.interview_status,
			takamol_status = EXCLUDED.takamol_status,
			medical_status = EXCLUDED.medical_status,
			biometric_status = EXCLUDED.biometric_status,
			e_number_status = EXCLUDED.e_number_status,
			visa_status = EXCLUDED.visa_status,
			e_number = EXCLUDED.e_number,
			visa_number = EXCLUDED.visa_number,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(p.CandidateID), string(p.InterviewStatus), string(p.TakamolStatus), string(p.MedicalStatus),
		string(p.BiometricStatus), string(p.ENumberStatus), string(p.VisaStatus),
		p.ENumber, p.VisaNumber, p.CreatedAt, p.UpdatedAt)
	return translate(err, "save visa process")
}

func (s *PostgresStore) GetDeparture(ctx context.Context, candidateID id.CandidateID) (*departure.Departure, error) {
	var (
		d   departure.Departure
		cid uuid.UUID
	)
	err := s.exec(ctx).QueryRowContext(ctx, `
		SELECT candidate_id, flight_number, departure_date, destination, briefing_completed,
			briefing_completed_at, departed_at, updated_at
		FROM departures WHERE candidate_id = $1`,
		uuid.UUID(candidateID),
	).Scan(&cid, &d.FlightNumber, &d.DepartureDate, &d.Destination, &d.BriefingCompleted,
		&d.BriefingCompletedAt, &d.DepartedAt, &d.UpdatedAt)
	if err != nil {
		return nil, translate(err, "get departure")
	}
	d.CandidateID = id.CandidateID(cid)
	return &d, nil
}

func (s *PostgresStore) SaveDeparture(ctx context.Context, d *departure.Departure) error {
	query := `
		INSERT INTO departures (candidate_id, flight_number, departure_date, destination,
			briefing_completed, briefing_completed_at, departed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (candidate_id) DO UPDATE SET
			flight_number = EXCLUDED.flight_number,
			departure_date = EXCLUDED.departure_date,
			destination = EXCLUDED.destination,
			briefing_completed = EXCLUDED.briefing_completed,
			briefing_completed_at = EXCLUDED.briefing_completed_at,
			departed_at = EXCLUDED.departed_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(d.CandidateID), d.FlightNumber, d.DepartureDate, d.Destination,
		d.BriefingCompleted, d.BriefingCompletedAt, d.DepartedAt, d.UpdatedAt)
	return translate(err, "save departure")
}

func (s *PostgresStore) AddRemittance(ctx context.Context, r *departure.Remittance) error {
	query := `
		INSERT INTO remittances (id, candidate_id, amount, currency, transfer_date, purpose, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.exec(ctx).ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.CandidateID), r.Amount, r.Currency, r.TransferDate, r.Purpose, r.RecordedAt)
	return translate(err, "add remittance")
}

func (s *PostgresStore) ListRemittances(ctx context.Context, candidateID id.CandidateID) ([]departure.Remittance, error) {
	rows, err := s.exec(ctx).QueryContext(ctx, `
		SELECT id, candidate_id, amount, currency, transfer_date, purpose, recorded_at
		FROM remittances WHERE candidate_id = $1 ORDER BY transfer_date`,
		uuid.UUID(candidateID))
	if err != nil {
		return nil, translate(err, "list remittances")
	}
	defer rows.Close()

	out := make([]departure.Remittance, 0)
	for rows.Next() {
		var (
			r        departure.Remittance
			rid, cid uuid.UUID
		)
		if err := rows.Scan(&rid, &cid, &r.Amount, &r.Currency, &r.TransferDate, &r.Purpose, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan remittance: %w", err)
		}
		r.ID = id.RemittanceID(rid)
		r.CandidateID = id.CandidateID(cid)
		out = append(out, r)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

var _ lifecycle.Store = (*PostgresStore)(nil)
