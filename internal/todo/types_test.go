package todo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tasks.csv")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	added := []Task{
		{Description: "Buy milk", Priority: PriorityLow},
		{Description: "File taxes, before April", Priority: PriorityHigh},
		{Description: `Say "hi"`, Priority: PriorityMedium},
		{Description: "Buy milk", Priority: PriorityHigh},
	}
	for _, task := range added {
		if err := store.Add(task.Description, task.Priority); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	loaded, err := Open(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := loaded.List()
	if len(got) != len(added) {
		t.Fatalf("Tasks count: got %d, want %d", len(got), len(added))
	}
	for i := range added {
		if got[i] != added[i] {
			t.Errorf("task %d: got %+v, want %+v", i, got[i], added[i])
		}
	}
}

func TestSaveWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	store := NewStore(path)
	if err := store.Add("Write report", PriorityHigh); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := "description,priority\nWrite report,High\n"
	if string(data) != want {
		t.Errorf("file contents: got %q, want %q", string(data), want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len: got %d, want 0", store.Len())
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unterminated quote", "description,priority\n\"Buy milk,High\n"},
		{"bare quote", "description,priority\nBuy \"milk\" now,High\n"},
		{"missing priority column", "description,owner\nBuy milk,me\n"},
		{"missing description column", "title,priority\nBuy milk,High\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			_, err := Open(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if pe.Path != path {
				t.Errorf("ParseError.Path: got %q, want %q", pe.Path, path)
			}
		})
	}
}

func TestLoadToleratesMalformedRows(t *testing.T) {
	content := "description,priority\nBuy milk\n,High\nWalk dog,Low,extra\n"
	tasks, err := Decode(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []Task{
		{Description: "Buy milk", Priority: ""},
		{Description: "", Priority: PriorityHigh},
		{Description: "Walk dog", Priority: PriorityLow},
	}
	if len(tasks) != len(want) {
		t.Fatalf("Tasks count: got %d, want %d", len(tasks), len(want))
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("task %d: got %+v, want %+v", i, tasks[i], want[i])
		}
	}
}

// Every task that passes ValidateInput must reload unchanged.
func TestValidatedInputRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	store := NewStore(path)

	inputs := []struct{ description, priority string }{
		{"Buy milk\r\n", "high"},
		{"  tabs\tand, commas ", "Low"},
		{`quotes "inside"`, "medium"},
		{"line one\r\nline two", "High"},
		{"line one\nline two", "High"},
	}
	var want []Task
	for _, in := range inputs {
		task, err := ValidateInput(in.description, in.priority)
		if err != nil {
			continue
		}
		if err := store.Add(task.Description, task.Priority); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		want = append(want, task)
	}
	if len(want) != 3 {
		t.Fatalf("accepted %d inputs, want 3: %+v", len(want), want)
	}

	loaded, err := Open(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := loaded.List()
	if len(got) != len(want) {
		t.Fatalf("reloaded %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: reloaded %q, added %q", i, got[i].Description, want[i].Description)
		}
	}
}

// A zero-byte file loads as an empty list rather than failing as malformed,
// so a freshly touched tasks.csv is usable.
func TestDecodeColumnOrderAndEmptyFile(t *testing.T) {
	tasks, err := Decode(strings.NewReader("priority,description\nHigh,Ship it\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Description != "Ship it" || tasks[0].Priority != PriorityHigh {
		t.Errorf("got %+v", tasks)
	}

	tasks, err = Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode(empty) failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Decode(empty): got %d tasks, want 0", len(tasks))
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	store := NewStore(path)
	for _, task := range []Task{
		{Description: "A", Priority: PriorityLow},
		{Description: "B", Priority: PriorityHigh},
		{Description: "A", Priority: PriorityMedium},
	} {
		if err := store.Add(task.Description, task.Priority); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	removed, err := store.Remove("Z")
	if err != nil {
		t.Fatalf("Remove(Z) failed: %v", err)
	}
	if removed != 0 || store.Len() != 3 {
		t.Errorf("Remove(Z): removed %d, len %d; want 0, 3", removed, store.Len())
	}

	removed, err = store.Remove("a")
	if err != nil {
		t.Fatalf("Remove(a) failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("Remove is case-sensitive: removed %d, want 0", removed)
	}

	removed, err = store.Remove("A")
	if err != nil {
		t.Fatalf("Remove(A) failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Remove(A): removed %d, want 2", removed)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := reloaded.List()
	if len(got) != 1 || got[0] != (Task{Description: "B", Priority: PriorityHigh}) {
		t.Errorf("after Remove: got %+v, want [{B High}]", got)
	}
}

func TestRemoveDoesNotTrim(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tasks.csv"))
	if err := store.Add("Buy milk", PriorityLow); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	removed, err := store.Remove(" Buy milk ")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed %d, want 0", removed)
	}
}

func TestListReturnsCopy(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "tasks.csv"))
	if err := store.Add("Buy milk", PriorityLow); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	list := store.List()
	list[0].Description = "changed"
	if store.List()[0].Description != "Buy milk" {
		t.Error("List exposed internal slice")
	}
}

func TestAddRollsBackOnSaveFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory at the task path makes the rename fail.
	path := filepath.Join(dir, "tasks.csv")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	store := NewStore(path)
	if err := store.Add("Buy milk", PriorityLow); err == nil {
		t.Fatal("expected error, got nil")
	}
	if store.Len() != 0 {
		t.Errorf("Len after failed Add: got %d, want 0", store.Len())
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"High", PriorityHigh, false},
		{"high", PriorityHigh, false},
		{"hIGH", PriorityHigh, false},
		{" medium ", PriorityMedium, false},
		{"LOW", PriorityLow, false},
		{"Urgent", "", true},
		{"", "", true},
		{"very high", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPriority) {
				t.Errorf("expected ErrInvalidPriority, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name        string
		description string
		priority    string
		want        Task
		wantErr     error
	}{
		{"valid", "  Buy milk ", "low", Task{Description: "Buy milk", Priority: PriorityLow}, nil},
		{"empty description", "", "High", Task{}, ErrEmptyDescription},
		{"blank description", "   ", "High", Task{}, ErrEmptyDescription},
		{"bad priority", "Buy milk", "Urgent", Task{}, ErrInvalidPriority},
		{"crlf inside", "line one\r\nline two", "High", Task{}, ErrMultilineDescription},
		{"lf inside", "line one\nline two", "High", Task{}, ErrMultilineDescription},
		{"cr inside", "line one\rline two", "High", Task{}, ErrMultilineDescription},
		{"trailing crlf trimmed", "Buy milk\r\n", "High", Task{Description: "Buy milk", Priority: PriorityHigh}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateInput(tt.description, tt.priority)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsHigh(t *testing.T) {
	for _, p := range []Priority{"High", "high", "HIGH"} {
		if !(Task{Priority: p}).IsHigh() {
			t.Errorf("IsHigh(%q) = false, want true", p)
		}
	}
	for _, p := range []Priority{"Low", "Medium", "", "Higher"} {
		if (Task{Priority: p}).IsHigh() {
			t.Errorf("IsHigh(%q) = true, want false", p)
		}
	}
}

func TestImport(t *testing.T) {
	input := `{"tasks": [
		{"description": "Buy milk", "priority": "low"},
		{"description": " Call mom ", "priority": "HIGH"}
	]}`
	tasks, result, err := Import(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !result.UsedSchema {
		t.Error("expected schema validation to be used")
	}
	want := []Task{
		{Description: "Buy milk", Priority: PriorityLow},
		{Description: "Call mom", Priority: PriorityHigh},
	}
	if len(tasks) != len(want) {
		t.Fatalf("Tasks count: got %d, want %d", len(tasks), len(want))
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("task %d: got %+v, want %+v", i, tasks[i], want[i])
		}
	}
}

func TestImportInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing tasks", `{}`},
		{"bad priority", `{"tasks": [{"description": "Buy milk", "priority": "Urgent"}]}`},
		{"blank description", `{"tasks": [{"description": "  ", "priority": "Low"}]}`},
		{"extra field", `{"tasks": [{"description": "Buy milk", "priority": "Low", "due": "today"}]}`},
		{"wrong type", `{"tasks": [{"description": 5, "priority": "Low"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, result, err := Import(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("expected error, got tasks %+v", tasks)
			}
			if result == nil || result.Valid {
				t.Fatalf("expected invalid result, got %+v", result)
			}
			if len(result.Errors) == 0 {
				t.Error("expected validation errors")
			}
		})
	}
}

func TestImportMultilineDescription(t *testing.T) {
	_, result, err := Import(strings.NewReader(`{"tasks":[{"description":"Ship\r\nit","priority":"High"}]}`))
	if !errors.Is(err, ErrMultilineDescription) {
		t.Fatalf("Import: got %v, want ErrMultilineDescription", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Path != "tasks[0]" {
		t.Errorf("ValidationError: got %+v", ve)
	}
	if result == nil || result.Valid {
		t.Errorf("result should be invalid: %+v", result)
	}
}

func TestImportNotJSON(t *testing.T) {
	if _, _, err := Import(strings.NewReader("description,priority\n")); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestValidateImportMinimal(t *testing.T) {
	result := &ValidationResult{Valid: true}
	validateImportMinimal(map[string]interface{}{
		"tasks": []interface{}{
			map[string]interface{}{"description": "ok", "priority": "Low"},
			map[string]interface{}{"description": "no priority"},
		},
	}, result)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors: got %d, want 1", len(result.Errors))
	}
	var ve *ValidationError
	if !errors.As(result.Errors[0], &ve) || ve.Path != "tasks[1].priority" {
		t.Errorf("unexpected error: %v", result.Errors[0])
	}
}

func TestExport(t *testing.T) {
	tasks := []Task{
		{Description: "Buy milk", Priority: PriorityLow},
		{Description: "Ship release", Priority: PriorityHigh},
	}

	t.Run("json round trips through Import", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Export(&buf, tasks, FormatJSON); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		got, _, err := Import(&buf)
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if len(got) != 2 || got[0] != tasks[0] || got[1] != tasks[1] {
			t.Errorf("got %+v, want %+v", got, tasks)
		}
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Export(&buf, tasks, FormatCSV); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		want := "description,priority\nBuy milk,Low\nShip release,High\n"
		if buf.String() != want {
			t.Errorf("got %q, want %q", buf.String(), want)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Export(&buf, tasks, FormatYAML); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"tasks:", "description: Buy milk", "priority: High"} {
			if !strings.Contains(out, want) {
				t.Errorf("yaml output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("pdf", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Export(&buf, tasks, FormatPDF); err != nil {
			t.Fatalf("Export failed: %v", err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Errorf("output does not look like a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"pdf", FormatPDF, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
