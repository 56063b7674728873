// internal/models/procurement.go
package models

// Field names as stored in the purchases collection. The CSV loader keeps the
// original column headers verbatim, so aggregation stages reference these
// exact strings, spaces included.
const (
	FieldCreationDate      = "Creation Date"
	FieldPurchaseDate      = "Purchase Date"
	FieldFiscalYear        = "Fiscal Year"
	FieldPONumber          = "Purchase Order Number"
	FieldAcquisitionType   = "Acquisition Type"
	FieldAcquisitionMethod = "Acquisition Method"
	FieldDepartmentName    = "Department Name"
	FieldSupplierName      = "Supplier Name"
	FieldSupplierCode      = "Supplier Code"
	FieldItemName          = "Item Name"
	FieldItemDescription   = "Item Description"
	FieldQuantity          = "Quantity"
	FieldUnitPrice         = "Unit Price"
	FieldTotalPrice        = "Total Price"
)

// Stats is the snapshot the statistics panel renders in its sidebar.
type Stats struct {
	Records       int64   `json:"records"`
	Departments   int     `json:"departments"`
	Suppliers     int     `json:"suppliers"`
	TotalSpending float64 `json:"totalSpending"`
}
