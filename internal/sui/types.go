package sui

import (
	"encoding/json"
	"math/big"
	"strconv"
)

// CoinPage is the result of suix_getCoins.
type CoinPage struct {
	Data        []CoinStruct `json:"data"`
	NextCursor  *string      `json:"nextCursor"`
	HasNextPage bool         `json:"hasNextPage"`
}

type CoinStruct struct {
	CoinType            string `json:"coinType"`
	CoinObjectID        string `json:"coinObjectId"`
	Version             string `json:"version"`
	Digest              string `json:"digest"`
	Balance             string `json:"balance"`
	PreviousTransaction string `json:"previousTransaction"`
}

// Ref converts the JSON fields into an ObjectRef.
func (c CoinStruct) Ref() (ObjectRef, error) {
	v, err := strconv.ParseUint(c.Version, 10, 64)
	if err != nil {
		return ObjectRef{}, err
	}
	return NewObjectRef(c.CoinObjectID, v, c.Digest)
}

// BalanceInt parses the decimal balance string.
func (c CoinStruct) BalanceInt() (*big.Int, bool) {
	return new(big.Int).SetString(c.Balance, 10)
}

// ObjectsPage is the result of suix_getOwnedObjects.
type ObjectsPage struct {
	Data        []ObjectResponse `json:"data"`
	NextCursor  *string          `json:"nextCursor"`
	HasNextPage bool             `json:"hasNextPage"`
}

type ObjectResponse struct {
	Data  *ObjectData     `json:"data"`
	Error json.RawMessage `json:"error,omitempty"`
}

type ObjectData struct {
	ObjectID string `json:"objectId"`
	Version  string `json:"version"`
	Digest   string `json:"digest"`
	Type     string `json:"type"`
}

// Ref converts the JSON fields into an ObjectRef.
func (o ObjectData) Ref() (ObjectRef, error) {
	v, err := strconv.ParseUint(o.Version, 10, 64)
	if err != nil {
		return ObjectRef{}, err
	}
	return NewObjectRef(o.ObjectID, v, o.Digest)
}

type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Succeeded reports a "success" execution status.
func (s ExecutionStatus) Succeeded() bool {
	return s.Status == "success"
}

type GasCostSummary struct {
	ComputationCost         string `json:"computationCost"`
	StorageCost             string `json:"storageCost"`
	StorageRebate           string `json:"storageRebate"`
	NonRefundableStorageFee string `json:"nonRefundableStorageFee"`
}

type Effects struct {
	Status  ExecutionStatus `json:"status"`
	GasUsed GasCostSummary  `json:"gasUsed"`
}

// Owner is the polymorphic owner field; only address owners are decoded.
type Owner struct {
	AddressOwner string `json:"AddressOwner,omitempty"`
}

// UnmarshalJSON tolerates string owners such as "Immutable".
func (o *Owner) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		*o = Owner{}
		return nil
	}
	type plain Owner
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Owner(p)
	return nil
}

type BalanceChange struct {
	Owner    Owner  `json:"owner"`
	CoinType string `json:"coinType"`
	Amount   string `json:"amount"`
}

type DryRunResponse struct {
	Effects        Effects         `json:"effects"`
	BalanceChanges []BalanceChange `json:"balanceChanges"`
}

type TransactionBlockResponse struct {
	Digest         string            `json:"digest"`
	TimestampMs    string            `json:"timestampMs,omitempty"`
	Effects        *Effects          `json:"effects,omitempty"`
	BalanceChanges []BalanceChange   `json:"balanceChanges,omitempty"`
	Transaction    *TransactionBlock `json:"transaction,omitempty"`
}

// TransactionBlock is the showInput view of a transaction.
type TransactionBlock struct {
	Data struct {
		Sender      string `json:"sender"`
		Transaction struct {
			Kind         string       `json:"kind"`
			Transactions []PTBCommand `json:"transactions"`
		} `json:"transaction"`
	} `json:"data"`
}

// PTBCommand decodes only MoveCall commands; other variants stay nil.
type PTBCommand struct {
	MoveCall *MoveCallCommand `json:"MoveCall,omitempty"`
}

type MoveCallCommand struct {
	Package  string `json:"package"`
	Module   string `json:"module"`
	Function string `json:"function"`
}

// MoveCalls lists the MoveCall commands of a programmable transaction.
func (t *TransactionBlockResponse) MoveCalls() []MoveCallCommand {
	if t.Transaction == nil {
		return nil
	}
	var out []MoveCallCommand
	for _, c := range t.Transaction.Data.Transaction.Transactions {
		if c.MoveCall != nil {
			out = append(out, *c.MoveCall)
		}
	}
	return out
}

// TransactionPage is the result of suix_queryTransactionBlocks.
type TransactionPage struct {
	Data        []TransactionBlockResponse `json:"data"`
	NextCursor  *string                    `json:"nextCursor"`
	HasNextPage bool                       `json:"hasNextPage"`
}
