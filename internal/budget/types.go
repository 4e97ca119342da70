// Package budget defines the data structures for the budgeting chain and
// includes functions for computing each schedule: CVP, sales collections,
// production, materials, labor and overhead, the cash budget, and the master
// production cost summary.
package budget

import (
	"errors"

	"github.com/finopskit/master-budget/pkg/constants"
	"github.com/finopskit/master-budget/pkg/schedule"
)

// ErrMissingStage indicates a computation was requested before the stage it
// depends on had any data. A wholly absent stage is never zero-filled.
var ErrMissingStage = errors.New("required input is missing")

// Policy holds the user-tunable knobs applied across the chain. Percentages
// are on the 0-100 scale. A Policy is immutable for the duration of a run.
type Policy struct {
	CashSalesPct         float64              `json:"cashSalesPct" yaml:"cashSalesPct"`
	Collections          []schedule.LagBucket `json:"collections" yaml:"collections"`
	ImmediatePaymentPct  float64              `json:"immediatePaymentPct" yaml:"immediatePaymentPct"`
	CreditorLags         []schedule.LagBucket `json:"creditorLags" yaml:"creditorLags"`
	WageTiming           string               `json:"wageTiming" yaml:"wageTiming"`
	OverheadTiming       string               `json:"overheadTiming" yaml:"overheadTiming"`
	Depreciation         float64              `json:"depreciation" yaml:"depreciation"`
	LaborHoursPerUnit    float64              `json:"laborHoursPerUnit" yaml:"laborHoursPerUnit"`
	LaborRate            float64              `json:"laborRate" yaml:"laborRate"`
	VariableOverheadRate float64              `json:"variableOverheadRate" yaml:"variableOverheadRate"`
	FixedOverhead        float64              `json:"fixedOverhead" yaml:"fixedOverhead"`
	FixedAllocBase       string               `json:"fixedAllocBase" yaml:"fixedAllocBase"`
	OpeningCash          float64              `json:"openingCash" yaml:"openingCash"`
}

// DefaultPolicy returns the policy preloaded in the user interface. The
// figures match the worked example shipped with the templates.
func DefaultPolicy() Policy {
	return Policy{
		CashSalesPct: constants.DefaultCashSalesPct,
		Collections: []schedule.LagBucket{
			{LagMonths: 1, Pct: 60},
			{LagMonths: 2, Pct: 40},
		},
		ImmediatePaymentPct: constants.DefaultImmediatePaymentPct,
		CreditorLags: []schedule.LagBucket{
			{LagMonths: 1, Pct: 50},
			{LagMonths: 2, Pct: 50},
		},
		WageTiming:     constants.TimingSameMonth,
		OverheadTiming: constants.TimingSameMonth,
		Depreciation:   constants.DefaultDepreciation,
		FixedAllocBase: constants.AllocBaseProducts,
		OpeningCash:    constants.DefaultOpeningCash,
	}
}

// CVPInput is one product line of the cost-volume-profit table.
type CVPInput struct {
	Product      string  `json:"product"`
	SellingPrice float64 `json:"sellingPrice"`
	VariableCost float64 `json:"variableCost"`
	FixedCost    float64 `json:"fixedCost"`
}

// ForecastRow is one (month, product) line of the sales forecast. Revenue is
// either taken from a pre-aggregated column or derived as units times price.
type ForecastRow struct {
	Month        string  `json:"month"`
	Product      string  `json:"product"`
	SalesUnits   float64 `json:"salesUnits"`
	SellingPrice float64 `json:"sellingPrice"`
	SalesRevenue float64 `json:"salesRevenue"`
}

// InventoryRow is one (month, product) stock plan line.
type InventoryRow struct {
	Month               string  `json:"month"`
	Product             string  `json:"product"`
	OpeningStock        float64 `json:"openingStock"`
	DesiredClosingStock float64 `json:"desiredClosingStock"`
}

// BOMLine is one material requirement of a product's bill of materials.
type BOMLine struct {
	Product     string  `json:"product"`
	Material    string  `json:"material"`
	QtyPerUnit  float64 `json:"qtyPerUnit"`
	CostPerUnit float64 `json:"costPerUnit"`
}

// RateRow carries per-product labor and variable overhead rates. Products
// without a rate row fall back to the global policy rates.
type RateRow struct {
	Product              string  `json:"product"`
	HoursPerUnit         float64 `json:"hoursPerUnit"`
	HourlyRate           float64 `json:"hourlyRate"`
	VariableOverheadRate float64 `json:"variableOverheadRate"`
}

// ExpenseRow carries the non-production cash expenses of one month.
type ExpenseRow struct {
	Month        string  `json:"month"`
	AdminSelling float64 `json:"adminSelling"`
	Tax          float64 `json:"tax"`
	Capex        float64 `json:"capex"`
}

// StatementRow is one month of the single-table statement used by the
// one-shot cash budget.
type StatementRow struct {
	Month              string  `json:"month"`
	SalesRevenue       float64 `json:"salesRevenue"`
	MaterialPurchases  float64 `json:"materialPurchases"`
	Wages              float64 `json:"wages"`
	MfgOverheads       float64 `json:"mfgOverheads"`
	AdminSellingExp    float64 `json:"adminSellingExp"`
	TaxPaid            float64 `json:"taxPaid"`
	CapitalExpenditure float64 `json:"capitalExpenditure"`
}

// CVPRow is one computed line of the CVP analysis. Degenerate marks rows
// whose ratios are not finite, such as a zero selling price or zero
// contribution; such rows are reported, never dropped.
type CVPRow struct {
	Product        string   `json:"product"`
	SellingPrice   float64  `json:"sellingPrice"`
	VariableCost   float64  `json:"variableCost"`
	FixedCost      float64  `json:"fixedCost"`
	Contribution   float64  `json:"contribution"`
	PVRatio        *float64 `json:"pvRatio"`
	BreakEvenUnits *float64 `json:"breakEvenUnits"`
	Degenerate     bool     `json:"degenerate"`
}

// SalesSchedule is the monthly revenue split into cash and scheduled credit
// collections. Collections holds one series per lag bucket, in bucket order.
type SalesSchedule struct {
	Months        []string             `json:"months"`
	Revenue       []float64            `json:"revenue"`
	CashSales     []float64            `json:"cashSales"`
	CreditSales   []float64            `json:"creditSales"`
	Buckets       []schedule.LagBucket `json:"buckets"`
	Collections   [][]float64          `json:"collections"`
	TotalReceipts []float64            `json:"totalReceipts"`
}

// ProductionRow is one (month, product) line of the production plan.
// MissingInventory marks forecast rows that found no stock plan and were
// computed with zero opening and closing stock.
type ProductionRow struct {
	Month               string  `json:"month"`
	Product             string  `json:"product"`
	SalesUnits          float64 `json:"salesUnits"`
	OpeningStock        float64 `json:"openingStock"`
	DesiredClosingStock float64 `json:"desiredClosingStock"`
	ProductionUnits     float64 `json:"productionUnits"`
	MissingInventory    bool    `json:"missingInventory"`
}

// MaterialRow is one (month, product, material) line of the material
// explosion. Products without a bill of materials keep a single zero-cost
// row flagged MissingBOM.
type MaterialRow struct {
	Month           string  `json:"month"`
	Product         string  `json:"product"`
	Material        string  `json:"material"`
	ProductionUnits float64 `json:"productionUnits"`
	QtyPerUnit      float64 `json:"qtyPerUnit"`
	TotalRequired   float64 `json:"totalRequired"`
	CostPerUnit     float64 `json:"costPerUnit"`
	TotalCost       float64 `json:"totalCost"`
	MissingBOM      bool    `json:"missingBOM"`
}

// LaborOverheadRow is one (month, product) line of the labor and overhead
// schedule.
type LaborOverheadRow struct {
	Month                   string  `json:"month"`
	Product                 string  `json:"product"`
	ProductionUnits         float64 `json:"productionUnits"`
	HoursPerUnit            float64 `json:"hoursPerUnit"`
	LaborHours              float64 `json:"laborHours"`
	HourlyRate              float64 `json:"hourlyRate"`
	LaborCost               float64 `json:"laborCost"`
	VariableOverheadRate    float64 `json:"variableOverheadRate"`
	VariableOverhead        float64 `json:"variableOverhead"`
	FixedOverheadAllocation float64 `json:"fixedOverheadAllocation"`
	TotalOverhead           float64 `json:"totalOverhead"`
}

// CashInputs carries the accrual-basis monthly figures the cash budget
// schedules into actual cash movements. Overheads include depreciation; the
// consolidator nets it out.
type CashInputs struct {
	Months       []string  `json:"months"`
	Receipts     []float64 `json:"receipts"`
	Purchases    []float64 `json:"purchases"`
	Wages        []float64 `json:"wages"`
	Overheads    []float64 `json:"overheads"`
	AdminSelling []float64 `json:"adminSelling"`
	Tax          []float64 `json:"tax"`
	Capex        []float64 `json:"capex"`
}

// CashBudget is the consolidated monthly cash position. Closing[t] feeds
// Opening[t+1]; the fold is strictly sequential.
type CashBudget struct {
	Months           []string  `json:"months"`
	Receipts         []float64 `json:"receipts"`
	PurchasePayments []float64 `json:"purchasePayments"`
	WagePayments     []float64 `json:"wagePayments"`
	OverheadPayments []float64 `json:"overheadPayments"`
	AdminSelling     []float64 `json:"adminSelling"`
	Tax              []float64 `json:"tax"`
	Capex            []float64 `json:"capex"`
	TotalPayments    []float64 `json:"totalPayments"`
	NetFlow          []float64 `json:"netFlow"`
	Opening          []float64 `json:"opening"`
	Closing          []float64 `json:"closing"`
}

// MasterCostRow is one (month, product) line of the consolidated production
// cost summary.
type MasterCostRow struct {
	Month               string  `json:"month"`
	Product             string  `json:"product"`
	MaterialCost        float64 `json:"materialCost"`
	LaborCost           float64 `json:"laborCost"`
	OverheadCost        float64 `json:"overheadCost"`
	TotalProductionCost float64 `json:"totalProductionCost"`
}

// Inputs bundles the decoded upload tables for a full chain run. CVP is
// independent of the chain and may be present alone.
type Inputs struct {
	CVP       []CVPInput
	Forecast  []ForecastRow
	Inventory []InventoryRow
	BOM       []BOMLine
	Rates     []RateRow
	Expenses  []ExpenseRow
}

// Results holds every derived table of a run along with non-fatal warnings
// accumulated across stages.
type Results struct {
	CVP        []CVPRow           `json:"cvp,omitempty"`
	Sales      *SalesSchedule     `json:"sales,omitempty"`
	Production []ProductionRow    `json:"production,omitempty"`
	Materials  []MaterialRow      `json:"materials,omitempty"`
	Labor      []LaborOverheadRow `json:"labor,omitempty"`
	Cash       *CashBudget        `json:"cash,omitempty"`
	MasterCost []MasterCostRow    `json:"masterCost,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
}
