package printing

import (
	"bytes"
	"fmt"
	"html/template"
)

// BillPrintItem is one produce line on the printed bill
type BillPrintItem struct {
	ProduceName string
	Quantity    string
	UnitWeight  string
	Fraction    string
	TotalWeight string
	UnitPrice   string
	Amount      string
}

// BillPrintPackaging is one basket line on the printed bill
type BillPrintPackaging struct {
	Label    string
	Quantity int
	Deducted bool
}

// BillPrintInstallment is one schedule row on the printed bill
type BillPrintInstallment struct {
	Number     int
	DueDate    string
	Amount     string
	PaidAmount string
	Status     string
}

// BillPrintData is everything the bill template needs. Amounts arrive
// preformatted so the template stays free of number handling.
type BillPrintData struct {
	BillNumber    string
	BillDate      string
	TypeLabel     string
	CustomerName  string
	Items         []BillPrintItem
	Packaging     []BillPrintPackaging
	Installments  []BillPrintInstallment
	ProcessingFee string
	PaperFee      string
	HasSurcharges bool
	TotalAmount   string
	Status        string
	Remark        string
}

var billTemplate = template.Must(template.New("bill").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.BillNumber}}</title>
<style>
  body { font-family: sans-serif; font-size: 13px; color: #111; }
  h1 { font-size: 18px; margin-bottom: 2px; }
  .meta { color: #555; margin-bottom: 16px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  th, td { border: 1px solid #ccc; padding: 5px 8px; text-align: right; }
  th:first-child, td:first-child { text-align: left; }
  th { background: #f4f4f4; }
  .total-row td { font-weight: bold; }
  .section { font-size: 14px; font-weight: bold; margin: 12px 0 4px; }
  .remark { margin-top: 12px; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.TypeLabel}} {{.BillNumber}}</h1>
<div class="meta">{{.CustomerName}} &middot; {{.BillDate}} &middot; {{.Status}}</div>

<table>
  <tr>
    <th>Produce</th><th>Qty</th><th>Unit weight</th><th>Fraction</th>
    <th>Total weight</th><th>Unit price</th><th>Amount</th>
  </tr>
  {{range .Items}}
  <tr>
    <td>{{.ProduceName}}</td><td>{{.Quantity}}</td><td>{{.UnitWeight}}</td>
    <td>{{.Fraction}}</td><td>{{.TotalWeight}}</td><td>{{.UnitPrice}}</td>
    <td>{{.Amount}}</td>
  </tr>
  {{end}}
  {{if .HasSurcharges}}
  <tr><td colspan="6">Processing fee</td><td>{{.ProcessingFee}}</td></tr>
  <tr><td colspan="6">Paper fee</td><td>{{.PaperFee}}</td></tr>
  {{end}}
  <tr class="total-row"><td colspan="6">Total</td><td>{{.TotalAmount}}</td></tr>
</table>

{{if .Packaging}}
<div class="section">Baskets</div>
<table>
  <tr><th>Basket</th><th>Qty</th><th>Deducted</th></tr>
  {{range .Packaging}}
  <tr><td>{{.Label}}</td><td>{{.Quantity}}</td><td>{{if .Deducted}}yes{{else}}no{{end}}</td></tr>
  {{end}}
</table>
{{end}}

{{if .Installments}}
<div class="section">Payment schedule</div>
<table>
  <tr><th>#</th><th>Due date</th><th>Amount</th><th>Paid</th><th>Status</th></tr>
  {{range .Installments}}
  <tr><td>{{.Number}}</td><td>{{.DueDate}}</td><td>{{.Amount}}</td><td>{{.PaidAmount}}</td><td>{{.Status}}</td></tr>
  {{end}}
</table>
{{end}}

{{if .Remark}}<div class="remark">{{.Remark}}</div>{{end}}
</body>
</html>`))

// RenderBillHTML fills the bill template
func RenderBillHTML(data BillPrintData) (string, error) {
	var buf bytes.Buffer
	if err := billTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render bill template: %w", err)
	}
	return buf.String(), nil
}
