package ingest

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/meltforce/fittrack/internal/workout"
	"gopkg.in/yaml.v3"
)

var (
	// packageLineRe matches: SWM;720;1;80;25;40
	packageLineRe = regexp.MustCompile(`^([A-Za-z]+)\s*(?:;(.*))?$`)

	// commentRe matches lines starting with #
	commentRe = regexp.MustCompile(`^#`)
)

// DefaultPackages returns the sample batch used when no input is supplied.
func DefaultPackages() []workout.Package {
	return []workout.Package{
		{Code: "SWM", Data: []float64{720, 1, 80, 25, 40}},
		{Code: "RUN", Data: []float64{15000, 1, 75}},
		{Code: "WLK", Data: []float64{9000, 1, 75, 180}},
	}
}

// ParseText reads one package per line in the form CODE;v1;v2;...
// Blank lines and # comments are skipped. Values accept a comma as the
// decimal separator. A line with an undecodable value yields a package
// carrying Err; only a line that is not a package at all fails the file.
func ParseText(r io.Reader) ([]workout.Package, error) {
	scanner := bufio.NewScanner(r)
	var pkgs []workout.Package
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || commentRe.MatchString(line) {
			continue
		}

		m := packageLineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: malformed package %q", lineNo, line)
		}

		p := workout.Package{Code: m[1]}
		if strings.TrimSpace(m[2]) != "" {
			for i, field := range strings.Split(m[2], ";") {
				v, err := parseDecimal(field)
				if err != nil {
					// The line still yields a package so the rest of the
					// batch keeps its positions.
					p.Data = nil
					p.Err = fmt.Errorf("%w: line %d: value %d: %v", workout.ErrInvalidInput, lineNo, i+1, err)
					break
				}
				p.Data = append(p.Data, v)
			}
		}
		pkgs = append(pkgs, p)
	}

	return pkgs, scanner.Err()
}

type yamlBatch struct {
	Packages []workout.Package `yaml:"packages"`
}

// ParseYAML reads a batch of the form:
//
//	packages:
//	  - type: SWM
//	    data: [720, 1, 80, 25, 40]
func ParseYAML(r io.Reader) ([]workout.Package, error) {
	var batch yamlBatch
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&batch); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding YAML batch: %w", err)
	}
	return batch.Packages, nil
}

// Format identifies a package file encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Parse reads packages in the given format.
func Parse(r io.Reader, format Format) ([]workout.Package, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(r)
	case FormatText, "":
		return ParseText(r)
	default:
		return nil, fmt.Errorf("unsupported package format %q", format)
	}
}

// parseDecimal converts "102,5" or "102.5" to 102.5.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
