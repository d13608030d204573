package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/voxport/pkg/domain"
)

const header = "# voxport manifest"

// Encode writes m in the manifest text format. The manifest is validated
// first so a malformed manifest is never written.
func Encode(w io.Writer, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, header)
	fmt.Fprintf(bw, "%s=%s\n", KeyWorldName, m.WorldName)
	fmt.Fprintf(bw, "%s=%d\n", KeyNumX, m.NumX)
	fmt.Fprintf(bw, "%s=%d\n", KeyNumY, m.NumY)
	fmt.Fprintf(bw, "%s=%d\n", KeyNumZ, m.NumZ)

	bw.WriteString(KeyCoordinates)
	bw.WriteByte('=')
	for n, e := range m.Cells {
		if n > 0 {
			bw.WriteString(cellSeparator)
		}
		bw.WriteString(e.String())
	}
	bw.WriteByte('\n')

	return bw.Flush()
}

// Decode reads a manifest. Any missing key, malformed value or cell count
// mismatch fails with domain.ErrCorruptManifest; partial data is never
// returned.
func Decode(r io.Reader) (*Manifest, error) {
	props, err := readProperties(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptManifest, err)
	}

	var errs []error
	require := func(key string) string {
		v, ok := props[key]
		if !ok {
			errs = append(errs, fmt.Errorf("missing key %q", key))
		}
		return v
	}
	requireInt := func(key string) int {
		raw, ok := props[key]
		if !ok {
			errs = append(errs, fmt.Errorf("missing key %q", key))
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", key, err))
		}
		return n
	}

	m := &Manifest{
		WorldName: strings.TrimSpace(require(KeyWorldName)),
		NumX:      requireInt(KeyNumX),
		NumY:      requireInt(KeyNumY),
		NumZ:      requireInt(KeyNumZ),
	}
	coords := require(KeyCoordinates)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptManifest, errors.Join(errs...))
	}

	if coords != "" {
		raw := strings.Split(coords, cellSeparator)
		m.Cells = make([]Entry, 0, len(raw))
		for n, item := range raw {
			e, err := parseEntry(item)
			if err != nil {
				return nil, fmt.Errorf("%w: cell %d: %w", domain.ErrCorruptManifest, n+1, err)
			}
			m.Cells = append(m.Cells, e)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// readProperties parses key=value lines. Blank lines and lines starting with
// '#' or '!' are ignored. The key ends at the first '=' or ':'.
func readProperties(r io.Reader) (map[string]string, error) {
	props := make(map[string]string)
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line != "" {
			lineNo++
			if perr := parseLine(props, line, lineNo); perr != nil {
				return nil, perr
			}
		}
		if errors.Is(err, io.EOF) {
			return props, nil
		}
	}
}

func parseLine(props map[string]string, line string, lineNo int) error {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
		return nil
	}
	idx := strings.IndexAny(trimmed, "=:")
	if idx < 0 {
		return fmt.Errorf("line %d: expected key=value", lineNo)
	}
	key := strings.TrimSpace(trimmed[:idx])
	if key == "" {
		return fmt.Errorf("line %d: empty key", lineNo)
	}
	if _, dup := props[key]; dup {
		return fmt.Errorf("line %d: duplicate key %q", lineNo, key)
	}
	props[key] = strings.TrimLeft(trimmed[idx+1:], " \t")
	return nil
}
