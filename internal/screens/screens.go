// Package screens declares the console's record screens. Each screen only
// names its API resource, its columns and its filters; paging, sorting,
// searching and location handling come from the table package.
package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/healthdesk/internal/api"
	"github.com/five82/healthdesk/internal/table"
)

// Screen is one registered table screen.
type Screen struct {
	ID       string // location path and API resource
	Title    string
	Hotkey   string
	Columns  []table.Column
	Filters  []table.Filter
	Resource string
}

// All returns the screens in hotkey order.
func All() []Screen {
	return []Screen{
		{
			ID: "students", Title: "Students", Hotkey: "1", Resource: "students",
			Columns: []table.Column{
				{Key: "id", Header: "ID", Width: 5, Sortable: true},
				{Key: "name", Header: "Name", Sortable: true},
				{Key: "grade", Header: "Grade", Width: 6, Sortable: true},
				{Key: "class", Header: "Class", Width: 6},
				{Key: "dob", Header: "Born", Width: 11, Sortable: true},
				{Key: "guardian", Header: "Guardian"},
				{Key: "status", Header: "Status", Width: 9, Status: true},
			},
			Filters: []table.Filter{
				{Key: "status", Label: "Status", Values: []string{"active", "inactive"}},
				{Key: "grade", Label: "Grade", Values: numbered(1, 12)},
			},
		},
		{
			ID: "health-records", Title: "Health records", Hotkey: "2", Resource: "health-records",
			Columns: []table.Column{
				{Key: "id", Header: "ID", Width: 5, Sortable: true},
				{Key: "date", Header: "Date", Width: 11, Sortable: true},
				{Key: "student", Header: "Student", Sortable: true},
				{Key: "complaint", Header: "Complaint", Sortable: true},
				{Key: "nurse", Header: "Seen by", Width: 10},
				{Key: "status", Header: "Status", Width: 7, Status: true},
			},
			Filters: []table.Filter{
				{Key: "status", Label: "Status", Values: []string{"open", "closed"}},
				{Key: "nurse", Label: "Nurse", Values: []string{"Nurse Lan", "Nurse Hoa", "Nurse Tam"}},
			},
		},
		{
			ID: "medications", Title: "Medications", Hotkey: "3", Resource: "medications",
			Columns: []table.Column{
				{Key: "id", Header: "ID", Width: 5, Sortable: true},
				{Key: "name", Header: "Name", Sortable: true},
				{Key: "form", Header: "Form", Width: 10},
				{Key: "stock", Header: "Stock", Width: 6, Sortable: true},
				{Key: "expiry", Header: "Expires", Width: 11, Sortable: true},
				{Key: "status", Header: "Status", Width: 13, Status: true},
			},
			Filters: []table.Filter{
				{Key: "status", Label: "Status", Values: []string{"active", "discontinued"}},
				{Key: "form", Label: "Form", Values: []string{"tablet", "syrup", "inhaler", "cream", "injection", "sachet"}},
			},
		},
		{
			ID: "vaccinations", Title: "Vaccinations", Hotkey: "4", Resource: "vaccinations",
			Columns: []table.Column{
				{Key: "id", Header: "ID", Width: 5, Sortable: true},
				{Key: "student", Header: "Student", Sortable: true},
				{Key: "vaccine", Header: "Vaccine", Sortable: true},
				{Key: "dose", Header: "Dose", Width: 5},
				{Key: "date", Header: "Date", Width: 11, Sortable: true},
				{Key: "status", Header: "Status", Width: 9, Status: true},
			},
			Filters: []table.Filter{
				{Key: "status", Label: "Status", Values: []string{"complete", "due", "overdue"}},
			},
		},
		{
			ID: "inventory", Title: "Inventory", Hotkey: "5", Resource: "inventory",
			Columns: []table.Column{
				{Key: "id", Header: "ID", Width: 5, Sortable: true},
				{Key: "item", Header: "Item", Sortable: true},
				{Key: "category", Header: "Category", Width: 12, Sortable: true},
				{Key: "quantity", Header: "Qty", Width: 5, Sortable: true, Cell: quantityCell},
				{Key: "unit", Header: "Unit", Width: 7},
				{Key: "status", Header: "Status", Width: 6, Status: true},
			},
			Filters: []table.Filter{
				{Key: "status", Label: "Stock", Values: []string{"ok", "low", "out"}},
				{Key: "category", Label: "Category", Values: []string{"first aid", "consumables", "equipment", "hygiene", "diagnostics"}},
			},
		},
		{
			ID: "users", Title: "Users", Hotkey: "6", Resource: "users",
			Columns: []table.Column{
				{Key: "id", Header: "ID", Width: 5, Sortable: true},
				{Key: "name", Header: "Name", Sortable: true},
				{Key: "email", Header: "Email"},
				{Key: "role", Header: "Role", Width: 8, Sortable: true},
				{Key: "active", Header: "Active", Width: 7},
			},
			Filters: []table.Filter{
				{Key: "role", Label: "Role", Values: []string{"admin", "nurse", "teacher", "clerk"}},
				{Key: "active", Label: "Active", Values: []string{"true", "false"}},
			},
		},
	}
}

// Find returns the screen with id.
func Find(id string) (Screen, bool) {
	id = strings.Trim(strings.TrimSpace(id), "/")
	for _, s := range All() {
		if s.ID == id {
			return s, true
		}
	}
	return Screen{}, false
}

// Fetcher adapts a PageSource to the table's data-source contract.
func Fetcher(source api.PageSource, resource string) table.FetchFunc {
	return func(ctx context.Context, req table.Request) (table.Page, error) {
		query := api.PageQuery{
			Page:    req.Page,
			Limit:   req.PageSize,
			Search:  req.Search,
			Filters: req.Filters,
			Reload:  req.Reload,
		}
		if !req.Sort.IsZero() {
			query.Sort = req.Sort.Column
			query.Order = req.Sort.Direction.String()
		}
		resp, err := source.FetchPage(ctx, resource, query)
		if err != nil {
			return table.Page{}, err
		}
		rows := make([]table.Row, len(resp.Items))
		for i, item := range resp.Items {
			rows[i] = table.Row(item)
		}
		return table.Page{Rows: rows, TotalRecords: resp.Total}, nil
	}
}

func quantityCell(row table.Row) string {
	qty := row.String("quantity")
	if row.String("status") == "low" {
		return qty + " !"
	}
	return qty
}

func numbered(from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprint(i))
	}
	return out
}
