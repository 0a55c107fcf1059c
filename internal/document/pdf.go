package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// inr renders a paise amount as a rupee figure, e.g. "Rs. 80,000.00".
func inr(paise int64) string {
	rupees := decimal.NewFromInt(paise).Div(decimal.NewFromInt(100)).StringFixed(2)

	parts := strings.SplitN(rupees, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	// Indian digit grouping: last three digits, then pairs.
	var grouped string
	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		for len(head) > 2 {
			tail = head[len(head)-2:] + "," + tail
			head = head[:len(head)-2]
		}
		grouped = head + "," + tail
	} else {
		grouped = intPart
	}

	out := "Rs. " + grouped + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func salutationName(fullName string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(fullName)))
}

func newLetterPDF(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "EcoVale HR")
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	return pdf
}

func letterBody(pdf *gofpdf.Fpdf, refNo string, paragraphs []string) {
	pdf.Cell(0, 6, "Ref: "+refNo)
	pdf.Ln(7)
	pdf.Cell(0, 6, "Date: "+time.Now().Format("02 January 2006"))
	pdf.Ln(12)
	for _, p := range paragraphs {
		pdf.MultiCell(0, 6, p, "", "L", false)
		pdf.Ln(4)
	}
	pdf.Ln(10)
	pdf.Cell(0, 6, "For EcoVale HR,")
	pdf.Ln(14)
	pdf.Cell(0, 6, "Authorised Signatory")
}

func renderOfferLetter(refNo string, e EmployeeInfo) *gofpdf.Fpdf {
	pdf := newLetterPDF("Offer of Employment")
	letterBody(pdf, refNo, []string{
		fmt.Sprintf("Dear %s,", salutationName(e.FullName)),
		fmt.Sprintf(
			"We are pleased to offer you the position of %s in the %s department, effective %s.",
			e.Designation, e.Department, e.JoinDate.Format("02 January 2006"),
		),
		fmt.Sprintf(
			"Your annual cost to company will be %s, with a monthly basic salary of %s. The detailed salary structure is enclosed with your appointment documents.",
			inr(e.AnnualCTC), inr(e.MonthlyBasic),
		),
		"We look forward to working with you.",
	})
	return pdf
}

func renderExperienceLetter(refNo string, e EmployeeInfo) *gofpdf.Fpdf {
	pdf := newLetterPDF("Experience Certificate")
	letterBody(pdf, refNo, []string{
		"To whomsoever it may concern,",
		fmt.Sprintf(
			"This is to certify that %s (employee code %s) has been employed with EcoVale HR as %s in the %s department since %s.",
			salutationName(e.FullName), e.Code, e.Designation, e.Department,
			e.JoinDate.Format("02 January 2006"),
		),
		"During the tenure, their conduct and performance have been found satisfactory.",
	})
	return pdf
}

func renderSalaryCertificate(refNo string, e EmployeeInfo) *gofpdf.Fpdf {
	pdf := newLetterPDF("Salary Certificate")
	letterBody(pdf, refNo, []string{
		"To whomsoever it may concern,",
		fmt.Sprintf(
			"This is to certify that %s (employee code %s), working as %s, draws an annual cost to company of %s with a monthly basic salary of %s.",
			salutationName(e.FullName), e.Code, e.Designation,
			inr(e.AnnualCTC), inr(e.MonthlyBasic),
		),
		"This certificate is issued at the request of the employee.",
	})
	return pdf
}

func renderPayslip(info PayslipInfo) *gofpdf.Fpdf {
	period := fmt.Sprintf("%s %d", time.Month(info.Month).String(), info.Year)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "EcoVale HR")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Payslip for "+period)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		pdf.CellFormat(90, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, value, "", 1, "R", false, 0, "")
	}

	row("Employee", fmt.Sprintf("%s (%s)", info.EmployeeName, info.EmployeeCode))
	row("Working days", fmt.Sprintf("%d", info.TotalWorkingDays))
	row("Payable days", fmt.Sprintf("%d", info.PayableDays))
	row("Loss of pay days", fmt.Sprintf("%d", info.LossOfPayDays))
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	row("Basic (adjusted)", inr(info.AdjustedBasic))
	row("Allowances", inr(info.TotalAllowances))
	row("Gross salary", inr(info.GrossSalary))
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	row("Provident fund", inr(info.PFEmployee))
	row("ESI", inr(info.ESIEmployee))
	row("Professional tax", inr(info.ProfessionalTax))
	row("TDS", inr(info.TDS))
	row("Advance recovery", inr(info.AdvanceDeduction))
	row("Loan EMI", inr(info.LoanDeduction))
	row("Total deductions", inr(info.TotalDeductions))
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	row("Net pay", inr(info.NetPay))

	return pdf
}
