// Package fasta reads and splits plain-text FASTA files.
package fasta

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/yumyai/reblast/internal/util"
)

var ErrEmpty = errors.New("no FASTA records found")

// Record is a single FASTA entry. Header keeps the text after '>',
// Seq the concatenated sequence lines.
type Record struct {
	Header string
	Seq    string
}

// Parse reads every record from r. Blank lines are skipped, sequence lines
// are concatenated. Order of records is preserved.
func Parse(r io.Reader) ([]Record, error) {

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var records []Record
	var current *Record

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if current != nil {
				records = append(records, *current)
			}
			current = &Record{Header: strings.TrimPrefix(line, ">")}
			continue
		}
		if current == nil {
			return nil, errors.New("sequence data before first FASTA header")
		}
		current.Seq += line
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}

	if current != nil {
		records = append(records, *current)
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}

	return records, nil
}

// ParseFile is Parse over a file on disk.
func ParseFile(fasta_path string) ([]Record, error) {

	f, err := os.Open(fasta_path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fasta_path, err)
	}

	return records, nil
}

// FirstRecordLen returns the sequence length of the first record in the
// file. It stops reading as soon as the length exceeds stopAfter, so a
// huge genome does not get slurped just to answer "is this short?".
func FirstRecordLen(fasta_path string, stopAfter int) (int, error) {

	f, err := os.Open(fasta_path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	length := 0
	seen_header := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			if seen_header { // finished the first record
				break
			}
			seen_header = true
			continue
		}
		length += len(line)
		if length > stopAfter {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan FASTA: %w", err)
	}

	return length, nil
}

// Split writes each record of a multi-record FASTA to its own file under
// outDir, named <stem>_<idx>.fasta with the sequence re-wrapped at width
// columns. A single-record file is returned as-is, without copying.
func Split(fasta_path, outDir string, width int) ([]string, error) {

	records, err := ParseFile(fasta_path)
	if err != nil {
		return nil, err
	}

	if len(records) <= 1 {
		return []string{fasta_path}, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create split folder: %w", err)
	}

	stem := util.Stem(fasta_path)

	var split_files []string
	for i, rec := range records {
		out_path := path.Join(outDir, fmt.Sprintf("%s_%d.fasta", stem, i+1))
		if err := writeRecord(out_path, rec, width); err != nil {
			return nil, err
		}
		split_files = append(split_files, out_path)
	}

	return split_files, nil
}

func writeRecord(out_path string, rec Record, width int) error {

	var b strings.Builder
	b.WriteString(">")
	b.WriteString(rec.Header)
	b.WriteString("\n")
	for _, chunk := range wrap(rec.Seq, width) {
		b.WriteString(chunk)
		b.WriteString("\n")
	}

	return os.WriteFile(out_path, []byte(b.String()), 0o644)
}

func wrap(seq string, width int) []string {
	if width <= 0 {
		return []string{seq}
	}
	var chunks []string
	for len(seq) > width {
		chunks = append(chunks, seq[:width])
		seq = seq[width:]
	}
	if len(seq) > 0 {
		chunks = append(chunks, seq)
	}
	return chunks
}
