package reports

import (
	"fmt"
	"time"

	"agenda-backend/internal/database"
	"agenda-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/export?year=2024&month=12 gera a planilha com os
// agendamentos do mês
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var year, month int
		if _, err := fmt.Sscan(c.Query("year"), &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year inválido")
		}
		if _, err := fmt.Sscan(c.Query("month"), &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month inválido")
		}

		inicio := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		fim := inicio.AddDate(0, 1, -1)

		var appointments []models.Appointment
		err := database.DB.
			Where("data >= ? AND data <= ?", inicio.Format("2006-01-02"), fim.Format("2006-01-02")).
			Order("data ASC, hora ASC").
			Find(&appointments).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar a planilha")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Agendamentos"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Data", "Hora", "Cliente", "Funcionário", "Tipo", "Urgência", "Modalidade", "Valor"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		total := 0.0
		for row, apt := range appointments {
			values := []any{
				apt.Data,
				apt.Hora,
				deref(apt.ClienteNome),
				deref(apt.FuncionarioNome),
				apt.Tipo,
				deref(apt.Urgencia),
				deref(apt.Modalidade),
				valorOf(apt),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
			total += valorOf(apt)
		}

		totalRow := len(appointments) + 3
		cell, _ := excelize.CoordinatesToCellName(7, totalRow)
		f.SetCellValue(sheet, cell, "Total")
		cell, _ = excelize.CoordinatesToCellName(8, totalRow)
		f.SetCellValue(sheet, cell, total)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar a planilha")
		}

		filename := fmt.Sprintf("agendamentos-%04d-%02d.xlsx", year, month)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.Send(buf.Bytes())
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
