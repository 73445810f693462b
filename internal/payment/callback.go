package payment

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Status is the normalized payment outcome.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusRefunded  Status = "refunded"
	StatusFailed    Status = "failed"
	StatusUnknown   Status = "unknown"
)

// NormalizeStatus maps the gateway's assorted status strings onto the
// standard set.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(raw) {
	case "success", "paid", "captured":
		return StatusConfirmed
	case "pending", "unpaid":
		return StatusPending
	case "voided", "refunded":
		return StatusRefunded
	case "declined", "failed":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// CallbackResult is the normalized form of a gateway callback.
type CallbackResult struct {
	// OrderID is the internal order id echoed back through the intention
	// extras, empty when only the transaction-id fallback can identify
	// the order.
	OrderID string

	// TransactionID is the gateway's transaction identifier.
	TransactionID string

	Status     Status
	RawStatus  string
	UpdateTime time.Time

	// OrderIDSource records which extraction strategy produced OrderID.
	OrderIDSource string
}

// Confirmed reports a captured payment.
func (r *CallbackResult) Confirmed() bool {
	return r.Status == StatusConfirmed
}

// callbackBody is the subset of the webhook POST body the parser reads.
type callbackBody struct {
	Type string `json:"type"`
	Obj  *struct {
		ID         json.Number `json:"id"`
		Success    *bool       `json:"success"`
		IsVoided   *bool       `json:"is_voided"`
		IsRefunded *bool       `json:"is_refunded"`
		Pending    *bool       `json:"pending"`
		Order      *struct {
			MerchantOrderID string `json:"merchant_order_id"`
		} `json:"order"`
		PaymentKeyClaims *struct {
			Extra map[string]any `json:"extra"`
		} `json:"payment_key_claims"`
	} `json:"obj"`
}

// ParseCallback normalizes a gateway callback from its query parameters and
// raw POST body. Extraction strategies are prioritized and fixed:
//
//	order id: payment-key-claims extra -> merchant_order_id (body, then
//	query) -> none (caller may fall back to transaction-id lookup)
//	outcome:  body transaction flags -> query flags
//
// Conflicting outcome signals between body and query are a hard error, to
// be logged for manual reconciliation rather than guessed at.
func ParseCallback(query url.Values, body []byte) (*CallbackResult, error) {
	result := &CallbackResult{
		UpdateTime: time.Now().UTC(),
		Status:     StatusUnknown,
	}

	var parsed callbackBody
	hasBody := len(body) > 0
	if hasBody {
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("malformed callback body: %w", err)
		}
	}

	bodyStatus := StatusUnknown
	if parsed.Obj != nil {
		result.TransactionID = parsed.Obj.ID.String()

		if parsed.Obj.Success != nil {
			switch {
			case boolVal(parsed.Obj.IsRefunded) || boolVal(parsed.Obj.IsVoided):
				bodyStatus = StatusRefunded
			case boolVal(parsed.Obj.Pending):
				bodyStatus = StatusPending
			case *parsed.Obj.Success:
				bodyStatus = StatusConfirmed
			default:
				bodyStatus = StatusFailed
			}
			result.RawStatus = statusFlagsString(parsed.Obj.Success, parsed.Obj.IsVoided, parsed.Obj.IsRefunded)
		}

		if claims := parsed.Obj.PaymentKeyClaims; claims != nil {
			if id, ok := claims.Extra["orderId"].(string); ok && id != "" {
				result.OrderID = id
				result.OrderIDSource = "payment_key_claims.extra"
			}
		}
		if result.OrderID == "" && parsed.Obj.Order != nil && parsed.Obj.Order.MerchantOrderID != "" {
			result.OrderID = parsed.Obj.Order.MerchantOrderID
			result.OrderIDSource = "body.merchant_order_id"
		}
	}

	queryStatus := StatusUnknown
	if success := query.Get("success"); success != "" {
		switch {
		case query.Get("is_refunded") == "true" || query.Get("is_voided") == "true":
			queryStatus = StatusRefunded
		case success == "true":
			queryStatus = StatusConfirmed
		default:
			queryStatus = StatusFailed
		}
		if result.RawStatus == "" {
			result.RawStatus = "query:success=" + success
		}
	}

	switch {
	case bodyStatus != StatusUnknown && queryStatus != StatusUnknown && bodyStatus != queryStatus:
		return nil, fmt.Errorf("ambiguous callback: body reports %s, query reports %s", bodyStatus, queryStatus)
	case bodyStatus != StatusUnknown:
		result.Status = bodyStatus
	case queryStatus != StatusUnknown:
		result.Status = queryStatus
	default:
		return nil, fmt.Errorf("callback carries no outcome signal")
	}

	if result.OrderID == "" {
		if id := query.Get("merchant_order_id"); id != "" {
			result.OrderID = id
			result.OrderIDSource = "query.merchant_order_id"
		}
	}
	if result.TransactionID == "" {
		result.TransactionID = query.Get("id")
	}

	if result.OrderID == "" && result.TransactionID == "" {
		return nil, fmt.Errorf("callback carries no order correlation")
	}

	return result, nil
}

func boolVal(b *bool) bool {
	return b != nil && *b
}

func statusFlagsString(success, voided, refunded *bool) string {
	return fmt.Sprintf("success=%v voided=%v refunded=%v",
		boolVal(success), boolVal(voided), boolVal(refunded))
}
