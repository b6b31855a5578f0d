package utils

import (
	"time"

	"go.uber.org/zap"

	"pos-api/models"
)

// TransactionChangeFields describes what a mutation did to a transaction as
// structured log fields. Nothing is returned for a create or when nothing
// changed apart from bookkeeping.
func TransactionChangeFields(action string, oldTx, newTx *models.Transaction) []zap.Field {
	fields := []zap.Field{zap.String("action", action)}
	if newTx != nil {
		fields = append(fields, zap.String("transactionId", newTx.ID))
	}
	if changes := calculateTransactionChanges(action, oldTx, newTx); changes != nil {
		fields = append(fields, zap.String("changes", *changes))
	}
	return fields
}

func calculateTransactionChanges(action string, oldTx, newTx *models.Transaction) *string {
	if action == "create" || oldTx == nil || newTx == nil {
		return nil
	}

	changes := make(map[string]interface{})

	if oldTx.PaymentStatus != newTx.PaymentStatus {
		changes["paymentStatus"] = map[string]string{
			"old": string(oldTx.PaymentStatus),
			"new": string(newTx.PaymentStatus),
		}
	}

	if oldTx.AmountPaid != newTx.AmountPaid {
		changes["amountPaid"] = map[string]float64{"old": oldTx.AmountPaid, "new": newTx.AmountPaid}
	}

	if oldTx.DueAmount != newTx.DueAmount {
		changes["dueAmount"] = map[string]float64{"old": oldTx.DueAmount, "new": newTx.DueAmount}
	}

	if oldTx.Customer.Name != newTx.Customer.Name {
		changes["customerName"] = map[string]string{"old": oldTx.Customer.Name, "new": newTx.Customer.Name}
	}

	if oldTx.Customer.PhoneNumber != newTx.Customer.PhoneNumber {
		changes["customerPhone"] = map[string]string{
			"old": oldTx.Customer.PhoneNumber,
			"new": newTx.Customer.PhoneNumber,
		}
	}

	if formatDate(oldTx.DueDate) != formatDate(newTx.DueDate) {
		changes["dueDate"] = map[string]string{"old": formatDate(oldTx.DueDate), "new": formatDate(newTx.DueDate)}
	}

	if getStringValue(oldTx.Description) != getStringValue(newTx.Description) {
		changes["description"] = map[string]string{
			"old": getStringValue(oldTx.Description),
			"new": getStringValue(newTx.Description),
		}
	}

	if len(oldTx.PaymentTypes) != len(newTx.PaymentTypes) {
		changes["paymentRecords"] = map[string]int{"old": len(oldTx.PaymentTypes), "new": len(newTx.PaymentTypes)}
	}

	if len(changes) == 0 {
		return nil
	}

	return toJSONString(changes)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
