// Package export writes scoring results to Excel workbooks.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/erabu/internal/models"
)

// ToExcel writes ranked candidates to an .xlsx workbook with a summary
// sheet and a ranked candidates sheet. Candidates are written in the order
// given, which is expected to be best first.
func ToExcel(candidates []*models.Candidate, job *models.JobProfile, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	summarySheet := "Summary"
	rankedSheet := "Ranked Candidates"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(rankedSheet); err != nil {
		return fmt.Errorf("create ranked sheet: %w", err)
	}

	if err := writeSummarySheet(f, summarySheet, candidates, job); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeRankedSheet(f, rankedSheet, candidates); err != nil {
		return fmt.Errorf("write ranked sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, sheet string, candidates []*models.Candidate, job *models.JobProfile) error {
	_ = f.SetColWidth(sheet, "A", "A", 25)
	_ = f.SetColWidth(sheet, "B", "B", 60)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Candidate Scoring Report")
	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	_ = f.MergeCell(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	label := func(a, b interface{}) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a)
		_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b)
		row++
	}

	label("Job Title:", job.Title)
	label("Required Skills:", strings.Join(job.RequiredSkills, ", "))
	label("Generated:", time.Now().Format("2006-01-02 15:04:05"))
	label("Candidates Ranked:", len(candidates))

	if len(candidates) > 0 {
		var total float64
		best, worst := candidates[0].Scores.Total, candidates[0].Scores.Total
		for _, c := range candidates {
			s := c.Scores.Total
			total += s
			if s > best {
				best = s
			}
			if s < worst {
				worst = s
			}
		}
		row++
		label("Average Score:", fmt.Sprintf("%.4f", total/float64(len(candidates))))
		label("Highest Score:", fmt.Sprintf("%.4f", best))
		label("Lowest Score:", fmt.Sprintf("%.4f", worst))
	}
	return nil
}

func writeRankedSheet(f *excelize.File, sheet string, candidates []*models.Candidate) error {
	headers := []string{
		"Rank", "Candidate ID", "Title",
		"Skills", "Summary", "Education", "Experience", "Total Score",
		"AI Summary",
	}
	widths := []float64{8, 20, 30, 12, 12, 12, 12, 12, 80}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, w)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, c := range candidates {
		values := []interface{}{
			i + 1, c.ID, c.Title,
			c.Scores.Skills, c.Scores.SummaryFinal, c.Scores.EducationFinal,
			c.Scores.ExperienceFinal, c.Scores.Total,
			c.AISummary,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}
