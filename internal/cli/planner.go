package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"finlab/internal/app"
	"finlab/internal/ingest"
)

var (
	eligEmployment string
	eligIncome     float64
	eligScore      int

	riskReturns []float64

	budgetIncome   float64
	budgetExpenses map[string]string

	savingsCurrent float64
	savingsMonthly float64
	savingsGoal    float64
)

var eligibilityCmd = &cobra.Command{
	Use:   "eligibility",
	Short: "Screen a loan applicant against the configured policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := getApp().Eligibility(cmd.Context(), app.EligibilityOptions{
			Employment:  eligEmployment,
			Income:      eligIncome,
			CreditScore: eligScore,
		})
		return err
	},
}

var riskCmd = &cobra.Command{
	Use:   "risk [return%...]",
	Short: "Rate the risk of a series of percentage returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		returns := append([]float64(nil), riskReturns...)
		for _, arg := range args {
			v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(arg), "%"), 64)
			if err != nil {
				return fmt.Errorf("invalid return %q: %w", arg, err)
			}
			returns = append(returns, v)
		}
		_, err := getApp().Risk(cmd.Context(), returns)
		return err
	},
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Total monthly expenses against income",
	RunE: func(cmd *cobra.Command, args []string) error {
		expenses, err := parseExpenses(budgetExpenses)
		if err != nil {
			return err
		}
		_, err = getApp().Budget(cmd.Context(), budgetIncome, expenses)
		return err
	},
}

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Project the months needed to reach a savings goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := getApp().Savings(cmd.Context(), app.SavingsOptions{
			Current: savingsCurrent,
			Monthly: savingsMonthly,
			Goal:    savingsGoal,
		})
		return err
	},
}

func init() {
	eligibilityCmd.Flags().StringVar(&eligEmployment, "employment", "employed", "Employment status (employed, self-employed, unemployed)")
	eligibilityCmd.Flags().Float64Var(&eligIncome, "income", 0, "Annual income")
	eligibilityCmd.Flags().IntVar(&eligScore, "credit-score", 0, "Credit score")

	riskCmd.Flags().Float64SliceVar(&riskReturns, "returns", nil, "Comma separated percentage returns")

	budgetCmd.Flags().Float64Var(&budgetIncome, "income", 0, "Monthly income")
	budgetCmd.Flags().StringToStringVar(&budgetExpenses, "expense", nil, "Expense category and amount, e.g. rent=25000,food=12k")

	savingsCmd.Flags().Float64Var(&savingsCurrent, "current", 0, "Current savings")
	savingsCmd.Flags().Float64Var(&savingsMonthly, "monthly", 0, "Monthly contribution")
	savingsCmd.Flags().Float64Var(&savingsGoal, "goal", 0, "Savings goal")
	_ = savingsCmd.MarkFlagRequired("goal")
}

// parseExpenses accepts the same number notation as price tables (12k, 1,500).
func parseExpenses(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for name, value := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("expense with empty category")
		}
		v, ok := ingest.ParseNumber(value)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q for expense %s", value, name)
		}
		out[name] = v
	}
	return out, nil
}
