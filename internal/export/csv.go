// Package export writes the final posting set to a delimited file and reads it back.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "go-jobsift/internal/errors"
	"go-jobsift/internal/models"
)

// Columns is the fixed column order of every export
var Columns = []string{"site", "company", "location", "title", "job_url", "date_posted", "job_type", "description"}

const fileTimestampLayout = "2006-01-02_15-04-05"

// exports within the same second get _2, _3, ... up to this many
const maxNameAttempts = 100

// FileName returns jobs_<timestamp>.csv for the given generation time
func FileName(now time.Time) string {
	return fmt.Sprintf("jobs_%s.csv", now.Format(fileTimestampLayout))
}

// fileNameN is FileName with a numeric suffix for attempt n > 1
func fileNameN(now time.Time, n int) string {
	if n <= 1 {
		return FileName(now)
	}
	return fmt.Sprintf("jobs_%s_%d.csv", now.Format(fileTimestampLayout), n)
}

func row(p models.Posting) []string {
	return []string{
		string(p.Site),
		p.Company,
		p.Location,
		p.Title,
		p.JobURL,
		p.DatePostedString(),
		p.JobType,
		p.Description,
	}
}

// WriteCSV writes a header and one row per posting. Every field is quoted,
// embedded quotes are doubled and line breaks are written as they are, so
// ReadCSV recovers the text exactly.
func WriteCSV(w io.Writer, postings []models.Posting) error {
	bw := bufio.NewWriter(w)

	if err := writeRecord(bw, Columns); err != nil {
		return err
	}
	for _, p := range postings {
		if err := writeRecord(bw, row(p)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := w.WriteByte('"'); err != nil {
			return err
		}
		if _, err := w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
			return err
		}
		if err := w.WriteByte('"'); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

// ReadCSV parses a file written by WriteCSV. Field text comes back byte for
// byte, including carriage returns inside quoted fields.
func ReadCSV(r io.Reader) ([]models.Posting, error) {
	br := bufio.NewReader(r)

	header, err := readRecord(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(Columns) {
		return nil, fmt.Errorf("read header: got %d columns, want %d", len(header), len(Columns))
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i, header[i], col)
		}
	}

	var postings []models.Posting
	for line := 2; ; line++ {
		record, err := readRecord(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(record) != len(Columns) {
			return nil, fmt.Errorf("read row %d: got %d fields, want %d", line, len(record), len(Columns))
		}

		p := models.Posting{
			Site:        models.Site(record[0]),
			Company:     record[1],
			Location:    record[2],
			Title:       record[3],
			JobURL:      record[4],
			JobType:     record[6],
			Description: record[7],
		}
		if record[5] != "" {
			d, err := time.Parse(models.DateLayout, record[5])
			if err != nil {
				return nil, fmt.Errorf("parse date_posted %q: %w", record[5], err)
			}
			p.DatePosted = &d
		}
		postings = append(postings, p)
	}
	return postings, nil
}

var errUnterminated = errors.New("unterminated quoted field")

// readRecord reads one record of quoted fields. io.EOF means the input ended
// cleanly before the record started.
func readRecord(r *bufio.Reader) ([]string, error) {
	var fields []string
	for {
		b, err := r.ReadByte()
		if err == io.EOF && fields == nil {
			return nil, io.EOF
		}
		if err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		if b != '"' {
			return nil, fmt.Errorf("field %d: expected opening quote, got %q", len(fields)+1, b)
		}

		field, err := readQuoted(r)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", len(fields)+1, err)
		}
		fields = append(fields, field)

		sep, err := r.ReadByte()
		if err == io.EOF {
			return fields, nil
		}
		if err != nil {
			return nil, err
		}
		switch sep {
		case ',':
		case '\n':
			return fields, nil
		case '\r':
			if next, err := r.ReadByte(); err == io.EOF || next == '\n' {
				return fields, nil
			}
			return nil, fmt.Errorf("field %d: stray carriage return after field", len(fields))
		default:
			return nil, fmt.Errorf("field %d: unexpected %q after closing quote", len(fields), sep)
		}
	}
}

// readQuoted reads up to the closing quote, undoubling embedded quotes
func readQuoted(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", errUnterminated
		}
		if c != '"' {
			sb.WriteByte(c)
			continue
		}
		next, err := r.ReadByte()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if next != '"' {
			if err := r.UnreadByte(); err != nil {
				return "", err
			}
			return sb.String(), nil
		}
		sb.WriteByte('"')
	}
}

// Exporter writes each run's postings to a new timestamped file in Dir
type Exporter struct {
	Dir string
	Now func() time.Time
}

func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Now: time.Now}
}

// Export writes postings to Dir/jobs_<timestamp>.csv and returns the path.
// The file is written under a temporary name and then linked into place, so a
// failed export never leaves a partial file behind and an existing export is
// never replaced. A second export within the same second gets a _2 suffix.
func (e *Exporter) Export(postings []models.Posting) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", apperrors.Export("create output directory", err)
	}

	now := e.Now()
	tmp, err := os.CreateTemp(e.Dir, ".jobs-*.csv.tmp")
	if err != nil {
		return "", apperrors.Export("create temp export file", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, postings); err != nil {
		tmp.Close()
		return "", apperrors.Export("write csv", err)
	}
	if err := tmp.Close(); err != nil {
		return "", apperrors.Export("close export file", err)
	}

	for n := 1; n <= maxNameAttempts; n++ {
		path := filepath.Join(e.Dir, fileNameN(now, n))
		err := os.Link(tmp.Name(), path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", apperrors.Export("link export file", err)
		}
	}
	return "", apperrors.Export(fmt.Sprintf("no free file name for %s", FileName(now)), os.ErrExist)
}
