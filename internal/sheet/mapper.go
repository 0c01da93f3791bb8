package sheet

import (
	"strconv"
	"strings"

	"atelier-dashboard/internal/models"
)

// RejectReason classifies rows the mapper drops. Rejections are per-row and
// never abort ingestion; they end up in a counter, not an error.
type RejectReason string

const (
	RejectShortRow    RejectReason = "short_row"
	RejectMissingID   RejectReason = "missing_id"
	RejectDuplicateID RejectReason = "duplicate_id"
)

// Sheet column roles. Positional order follows the published form layout.
const (
	fieldTimestamp = iota
	fieldOrderID
	fieldCustomer
	fieldEmail
	fieldPhone
	fieldAddress
	fieldProduct
	fieldQuantity
	fieldMaterial
	fieldColor
	fieldDelivery
	fieldAmount
	fieldPayment
	fieldStatus
	fieldUrgent
	fieldCount
)

// minPositionalFields is the minimum row width in positional mode: everything
// through the payment-mode column. Status and urgent are optional trailers.
const minPositionalFields = 13

// headerSynonyms matches the two header conventions seen on upstream sheets.
// Keys are lowercased, trimmed header cells.
var headerSynonyms = map[int][]string{
	fieldTimestamp: {"horodateur", "date"},
	fieldOrderID:   {"numéro de commande", "numero de commande", "commande", "order id"},
	fieldCustomer:  {"nom / prénom", "nom / prenom", "nom", "client"},
	fieldEmail:     {"adresse e-mail", "e-mail", "email"},
	fieldPhone:     {"téléphone", "telephone", "tél", "tel"},
	fieldAddress:   {"adresse de livraison", "adresse"},
	fieldProduct:   {"nom de l’article", "nom de l'article", "article", "produit"},
	fieldQuantity:  {"quantité", "quantite", "qté", "qte"},
	fieldMaterial:  {"matière", "matiere"},
	fieldColor:     {"couleur"},
	fieldDelivery:  {"livraison", "mode de livraison"},
	fieldAmount:    {"total payé", "total paye", "montant", "total"},
	fieldPayment:   {"mode de paiement", "paiement"},
	fieldStatus:    {"statut", "status"},
	fieldUrgent:    {"urgent"},
}

// Mapper turns parsed rows into Order records, either by header-name lookup
// or by fixed column position when no recognizable header is present.
type Mapper struct {
	byHeader bool
	index    [fieldCount]int
}

// NewMapper inspects the first row. If it carries a recognizable order-number
// header, name-based mapping is used and the header row is consumed from the
// returned data rows; otherwise every column sits at its fixed position.
func NewMapper(rows [][]string) (*Mapper, [][]string) {
	m := &Mapper{}
	for f := range m.index {
		m.index[f] = f
	}

	if len(rows) == 0 {
		return m, rows
	}

	var header [fieldCount]int
	for f := range header {
		header[f] = -1
	}
	matched := 0
	for col, cell := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(cell))
		for f, names := range headerSynonyms {
			if header[f] != -1 {
				continue
			}
			for _, n := range names {
				if name == n {
					header[f] = col
					matched++
					break
				}
			}
		}
	}

	// the order-number column is the identity of a header row; without it
	// the first row is data and positions apply
	if header[fieldOrderID] == -1 {
		return m, rows
	}

	m.byHeader = true
	m.index = header
	return m, rows[1:]
}

// cell returns the raw value for a field role, "" when the column is absent
// or the row too short.
func (m *Mapper) cell(row []string, f int) string {
	col := m.index[f]
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// MapRow maps one parsed row into an Order, overlaying the status override
// for its id. Rejected rows (too short in positional mode, or without an
// order number) return a non-empty reason and are excluded by the caller;
// position-derived synthetic ids are deliberately not generated because they
// are unstable across re-ingestion.
func (m *Mapper) MapRow(row []string, overrides map[string]models.Status) (models.Order, RejectReason) {
	if !m.byHeader && len(row) < minPositionalFields {
		return models.Order{}, RejectShortRow
	}

	id := m.cell(row, fieldOrderID)
	if id == "" {
		return models.Order{}, RejectMissingID
	}

	order := models.Order{
		ID:             id,
		Timestamp:      m.cell(row, fieldTimestamp),
		CustomerName:   defaultIfEmpty(m.cell(row, fieldCustomer), models.DefaultCustomerName),
		Email:          m.cell(row, fieldEmail),
		Phone:          m.cell(row, fieldPhone),
		Address:        m.cell(row, fieldAddress),
		Product:        defaultIfEmpty(m.cell(row, fieldProduct), models.DefaultProduct),
		Quantity:       parseQuantity(m.cell(row, fieldQuantity)),
		Material:       defaultIfEmpty(m.cell(row, fieldMaterial), models.DefaultMaterial),
		Color:          defaultIfEmpty(m.cell(row, fieldColor), models.DefaultColor),
		Amount:         ParseAmount(m.cell(row, fieldAmount)),
		PaymentMode:    defaultIfEmpty(m.cell(row, fieldPayment), models.DefaultPaymentMode),
		DeliveryMethod: defaultIfEmpty(m.cell(row, fieldDelivery), models.DefaultDeliveryMethod),
		Urgent:         parseUrgent(m.cell(row, fieldUrgent)),
	}
	order.Status = resolveStatus(id, m.cell(row, fieldStatus), overrides)

	return order, ""
}

// resolveStatus applies the precedence: local override, then the sheet's own
// status column, then the initial state.
func resolveStatus(id, sheetStatus string, overrides map[string]models.Status) models.Status {
	if s, ok := overrides[id]; ok {
		return s
	}
	if s, ok := models.ParseStatus(sheetStatus); ok {
		return s
	}
	return models.StatusPending
}

func defaultIfEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseQuantity(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return models.DefaultQuantity
	}
	return n
}

func parseUrgent(v string) bool {
	switch strings.ToLower(v) {
	case "oui", "yes", "true", "1":
		return true
	}
	return false
}
