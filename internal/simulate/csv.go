package simulate

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/Aisprintone/Sparrow-sub003/internal/model"
)

// WriteTrialsCSV dumps per-trial outcomes for offline inspection.
func WriteTrialsCSV(path string, trials []model.SimulationTrial) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"succeeded",
		"periods_to_target",
		"ending_balance",
		"debt_remaining",
		"cumulative_tax",
		"sanitized",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range trials {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatBool(t.Succeeded),
			strconv.Itoa(t.PeriodsToTarget),
			fmtFloat(t.EndingBalance),
			fmtFloat(t.DebtRemaining),
			fmtFloat(t.CumulativeTax),
			strconv.FormatBool(t.Sanitized),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
