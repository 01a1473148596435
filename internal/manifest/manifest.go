package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/boiler-labs/boiler/internal/platform"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FileName is the manifest file written by `npm init`.
const FileName = "package.json"

// placeholderTest is the "test" script npm init writes into a fresh manifest.
const placeholderTest = `echo "Error: no test specified" && exit 1`

var (
	// ErrManifestMissing is returned when the manifest file does not exist.
	ErrManifestMissing = errors.New("manifest not found")
	// ErrInvalidManifest is returned when the manifest is not a JSON object.
	ErrInvalidManifest = errors.New("manifest is not a valid JSON object")
)

// ScriptEntry is one entry of the manifest's "scripts" object.
type ScriptEntry struct {
	Name    string
	Command string
}

// ReadFile reads a manifest from disk. Comments and trailing commas are
// stripped so hand-edited manifests still parse.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestMissing, path)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	data = jsonc.ToJSON(data)
	if !isObject(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, path)
	}
	return data, nil
}

// Scripts returns the manifest's scripts in document order. A manifest
// without a "scripts" key has none; one whose "scripts" is not an object of
// strings is rejected with ErrInvalidManifest.
func Scripts(data []byte) ([]ScriptEntry, error) {
	scripts := gjson.GetBytes(data, "scripts")
	if !scripts.Exists() {
		return nil, nil
	}
	if !scripts.IsObject() {
		return nil, fmt.Errorf("%w: scripts is not an object", ErrInvalidManifest)
	}

	var (
		entries []ScriptEntry
		err     error
	)
	scripts.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = fmt.Errorf("%w: script %q is not a string", ErrInvalidManifest, key.String())
			return false
		}
		entries = append(entries, ScriptEntry{Name: key.String(), Command: value.String()})
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// PatchScripts replaces the manifest's "scripts" object. The new object holds
// the existing scripts that entries does not redefine (minus npm's
// placeholder test script), followed by entries in the order given. Bytes
// outside the scripts value are left as they were.
func PatchScripts(data []byte, entries []ScriptEntry) ([]byte, error) {
	if !isObject(data) {
		return nil, ErrInvalidManifest
	}

	replaced := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("script entry with empty name")
		}
		if replaced[e.Name] {
			return nil, fmt.Errorf("duplicate script entry %q", e.Name)
		}
		replaced[e.Name] = true
	}

	existing, err := Scripts(data)
	if err != nil {
		return nil, err
	}
	var merged []ScriptEntry
	for _, e := range existing {
		if replaced[e.Name] || (e.Name == "test" && e.Command == placeholderTest) {
			continue
		}
		merged = append(merged, e)
	}
	merged = append(merged, entries...)

	raw, err := encodeScripts(merged)
	if err != nil {
		return nil, err
	}
	indent := indentOf(data)
	raw = bytes.TrimSpace(pretty.PrettyOptions(raw, &pretty.Options{
		Width:  80,
		Prefix: indent,
		Indent: indent,
	}))

	var out []byte
	if gjson.GetBytes(data, "scripts").Exists() {
		out, err = sjson.SetRawBytes(data, "scripts", raw)
		if err != nil {
			return nil, fmt.Errorf("setting scripts: %w", err)
		}
	} else {
		out = appendMember(data, indent, "scripts", raw)
	}

	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// PatchFile applies PatchScripts to the manifest at path and overwrites it.
func PatchFile(path string, entries []ScriptEntry) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}

	out, err := PatchScripts(data, entries)
	if err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return platform.WriteFile(path, out, mode)
}

func isObject(data []byte) bool {
	return gjson.ValidBytes(data) && gjson.ParseBytes(data).IsObject()
}

// indentOf returns the indentation of the first top-level member, or two
// spaces when the document is on a single line.
func indentOf(data []byte) string {
	open := bytes.IndexByte(data, '{')
	rest := data[open+1:]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return "  "
	}
	line := rest[nl+1:]
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	if n == 0 {
		return "  "
	}
	return string(line[:n])
}

// appendMember adds key as the last member of the top-level object without
// touching the bytes before it.
func appendMember(data []byte, indent, key string, raw []byte) []byte {
	end := bytes.LastIndexByte(data, '}')
	head := bytes.TrimRight(data[:end], " \t\r\n")

	var buf bytes.Buffer
	buf.Write(head)
	var members int
	gjson.ParseBytes(data).ForEach(func(_, _ gjson.Result) bool {
		members++
		return false
	})
	if members > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString("\n" + indent + `"` + key + `": `)
	buf.Write(raw)
	buf.WriteString("\n")
	buf.Write(data[end:])
	return buf.Bytes()
}

// encodeScripts renders entries as a JSON object in order. HTML escaping is
// off so commands like "a && b" stay readable.
func encodeScripts(entries []ScriptEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, e.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, e.Command); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding %q: %w", s, err)
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
