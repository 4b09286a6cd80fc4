package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

const exportTimeFormat = "2006-01-02 15:04"

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// TruckDataset maps trucks into a fixed-column dataset.
func TruckDataset(trucks []models.Truck) Dataset {
	headers := []string{"plate", "model", "year", "status", "registered_at"}
	rows := make([]map[string]string, 0, len(trucks))
	for _, t := range trucks {
		rows = append(rows, map[string]string{
			"plate":         t.Plate,
			"model":         t.Model,
			"year":          strconv.Itoa(t.Year),
			"status":        string(t.Status),
			"registered_at": t.RegisteredAt.Format(exportTimeFormat),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

// MechanicDataset maps mechanics into a fixed-column dataset.
func MechanicDataset(mechanics []models.Mechanic) Dataset {
	headers := []string{"first_name", "last_name", "activity", "registered_at"}
	rows := make([]map[string]string, 0, len(mechanics))
	for _, m := range mechanics {
		rows = append(rows, map[string]string{
			"first_name":    m.FirstName,
			"last_name":     m.LastName,
			"activity":      string(m.Activity),
			"registered_at": m.RegisteredAt.Format(exportTimeFormat),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

// RepairDataset maps repairs into a fixed-column dataset.
func RepairDataset(repairs []models.Repair) Dataset {
	headers := []string{
		"fault_id", "truck_id", "mechanic_id", "fault_reason", "status",
		"entry_date", "exit_date", "cost", "additional_notes",
	}
	rows := make([]map[string]string, 0, len(repairs))
	for _, r := range repairs {
		mechanicID := ""
		if r.MechanicID != nil {
			mechanicID = r.MechanicID.Hex()
		}
		rows = append(rows, map[string]string{
			"fault_id":         r.FaultID,
			"truck_id":         r.TruckID.Hex(),
			"mechanic_id":      mechanicID,
			"fault_reason":     r.FaultReason,
			"status":           string(r.Status),
			"entry_date":       r.EntryDate.Format(exportTimeFormat),
			"exit_date":        formatOptionalTime(r.ExitDate),
			"cost":             strconv.FormatFloat(r.Cost, 'f', 2, 64),
			"additional_notes": r.AdditionalNotes,
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

// PreventiveDataset maps preventive tasks into a fixed-column dataset.
func PreventiveDataset(tasks []models.PreventiveTask) Dataset {
	headers := []string{"plate", "model", "type", "status", "urgency", "registered_at"}
	rows := make([]map[string]string, 0, len(tasks))
	for _, p := range tasks {
		rows = append(rows, map[string]string{
			"plate":         p.Plate,
			"model":         p.Model,
			"type":          string(p.Type),
			"status":        string(p.Status),
			"urgency":       string(p.Urgency),
			"registered_at": p.RegisteredAt.Format(exportTimeFormat),
		})
	}
	return Dataset{Headers: headers, Rows: rows}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeFormat)
}
