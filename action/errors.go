package action

import (
	"errors"
	"fmt"
)

var (
	// ErrDelivery matches every *DeliveryError through errors.Is.
	ErrDelivery = errors.New("action delivery failed")

	ErrActionNotFound  = errors.New("action not found")
	ErrDuplicateAction = errors.New("duplicate action")
)

// DeliveryKind classifies a delivery failure.
type DeliveryKind int

const (
	// DeliveryNoHash means the broadcast returned no transaction hash.
	DeliveryNoHash DeliveryKind = iota
	// DeliveryRejected means the remote database refused the transaction.
	DeliveryRejected
	// DeliveryTimeout means the status could not be established.
	DeliveryTimeout
	// DeliverySubmit means the transaction could not be built or
	// broadcast, so it never reached the remote database.
	DeliverySubmit
)

func (k DeliveryKind) String() string {
	switch k {
	case DeliveryNoHash:
		return "no_hash"
	case DeliveryRejected:
		return "rejected"
	case DeliveryTimeout:
		return "timeout"
	case DeliverySubmit:
		return "submit"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// DeliveryError reports that rows were not confirmed by the remote database.
type DeliveryError struct {
	Kind   DeliveryKind
	Action string
	TxHash []byte
	// Log is the rejection reason exactly as reported by the remote side.
	Log string
	// Err is the submission error, or the last query error for timeouts.
	Err error
}

func (e *DeliveryError) Error() string {
	switch e.Kind {
	case DeliveryNoHash:
		return fmt.Sprintf("action %s: no hash returned, ensure you are connected to the kwil database", e.Action)
	case DeliveryRejected:
		return fmt.Sprintf("action %s: transaction %x rejected: %s", e.Action, e.TxHash, e.Log)
	case DeliverySubmit:
		return fmt.Sprintf("action %s: failed to submit transaction: %v", e.Action, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("action %s: transaction %x not confirmed: %v", e.Action, e.TxHash, e.Err)
		}
		return fmt.Sprintf("action %s: transaction %x not confirmed", e.Action, e.TxHash)
	}
}

func (e *DeliveryError) Is(target error) bool {
	return target == ErrDelivery
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
