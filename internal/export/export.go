// Package export writes admin listings as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/orderflow"

	"github.com/tealeg/xlsx"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeaders = []string{
	"ID", "Customer", "Email", "Phone", "Status", "Payment", "Items",
	"Items Price", "Tax", "Delivery", "Discount", "Payable",
	"City", "Address", "Notes", "Created At",
}

var visitorHeaders = []string{
	"ID", "Visitor ID", "Session", "Ref", "Device", "Browser",
	"Page Visits", "Total Duration (s)", "Created At",
}

// Orders writes orders as a single "Orders" sheet.
func Orders(w io.Writer, orders []model.Order) error {
	file, sheet, err := newWorkbook("Orders", orderHeaders)
	if err != nil {
		return err
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(customer(o))
		row.AddCell().SetValue(o.Email)
		row.AddCell().SetValue(o.Phone)
		row.AddCell().SetValue(orderflow.Label(orderflow.Normalize(string(o.Status))))
		row.AddCell().SetValue(string(o.PaymentStatus))
		row.AddCell().SetValue(itemCount(o))
		row.AddCell().SetValue(o.Summary.ItemsPrice)
		row.AddCell().SetValue(o.Summary.Charges.TaxPrice)
		row.AddCell().SetValue(o.Summary.Charges.DeliveryCharges)
		row.AddCell().SetValue(o.Summary.Charges.Discount)
		row.AddCell().SetValue(payable(o))
		row.AddCell().SetValue(o.Address.City.Name)
		row.AddCell().SetValue(address(o.Address))
		row.AddCell().SetValue(o.Notes)
		row.AddCell().SetValue(o.CreatedAt)
	}

	return write(file, w)
}

// Visitors writes visitor sessions as a single "Visitors" sheet.
func Visitors(w io.Writer, visitors []model.Visitor) error {
	file, sheet, err := newWorkbook("Visitors", visitorHeaders)
	if err != nil {
		return err
	}

	for _, v := range visitors {
		row := sheet.AddRow()
		row.AddCell().SetValue(v.ID)
		row.AddCell().SetValue(v.VisitorID)
		row.AddCell().SetValue(v.Session)
		row.AddCell().SetValue(deref(v.Ref, "direct"))
		row.AddCell().SetValue(deref(v.DeviceType, ""))
		row.AddCell().SetValue(deref(v.Browser, ""))
		row.AddCell().SetValue(len(v.PageVisits))
		row.AddCell().SetValue(v.TotalDuration)
		row.AddCell().SetValue(v.CreatedAt)
	}

	return write(file, w)
}

func newWorkbook(name string, headers []string) (*xlsx.File, *xlsx.Sheet, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s sheet: %w", name, err)
	}

	header := sheet.AddRow()
	for _, h := range headers {
		header.AddCell().SetValue(h)
	}
	return file, sheet, nil
}

func write(file *xlsx.File, w io.Writer) error {
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func customer(o model.Order) string {
	switch {
	case o.User != nil && o.User.Name != "":
		return o.User.Name
	case o.UserID != nil:
		return "user " + strconv.FormatInt(*o.UserID, 10)
	case o.GuestID != nil:
		return "guest " + *o.GuestID
	default:
		return ""
	}
}

func itemCount(o model.Order) int {
	if o.OrderItemsCount > 0 {
		return o.OrderItemsCount
	}
	return len(o.OrderItems)
}

// payable falls back to the order total for list rows without a summary.
func payable(o model.Order) float64 {
	if o.Summary.PayablePrice > 0 {
		return o.Summary.PayablePrice
	}
	return o.TotalAmount
}

func address(a model.OrderAddress) string {
	out := a.StreetAddress
	for _, part := range []string{a.State, a.ZipCode} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
