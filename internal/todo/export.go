package todo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskmate-go/internal/utils"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// ParseFormat returns the export format for name. "yml" is accepted for yaml.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown format %q (csv|json|yaml|pdf)", name)
	}
}

// Export writes tasks to w in the given format. The json output is accepted
// by Import.
func Export(w io.Writer, tasks []Task, format Format) error {
	if tasks == nil {
		tasks = []Task{}
	}
	switch format {
	case FormatCSV:
		return Encode(w, tasks)
	case FormatJSON:
		data, err := json.MarshalIndent(ImportFile{Tasks: tasks}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal tasks: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ImportFile{Tasks: tasks}); err != nil {
			return fmt.Errorf("marshal tasks: %w", err)
		}
		return enc.Close()
	case FormatPDF:
		return exportPDF(w, tasks)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func exportPDF(w io.Writer, tasks []Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task List")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(10, 7, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(140, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Priority", "1", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	if len(tasks) == 0 {
		pdf.CellFormat(180, 7, "No tasks available.", "1", 1, "L", false, 0, "")
	}
	for i, t := range tasks {
		pdf.CellFormat(10, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(140, 7, tr(utils.Truncate(t.Description, 80)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, tr(string(t.Priority)), "1", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
