package externalmodel

import "github.com/shopspring/decimal"

// Raw DhanHQ sandbox payload shapes, as the API sends them. Mapping into the
// dashboard's own shapes lives in src/mapper.

type DhanPosition struct {
	TradingSymbol    string          `json:"tradingSymbol"`
	PositionType     string          `json:"positionType"` // LONG, SHORT, CLOSED
	NetQty           int             `json:"netQty"`
	BuyAvg           decimal.Decimal `json:"buyAvg"`
	SellAvg          decimal.Decimal `json:"sellAvg"`
	CostPrice        decimal.Decimal `json:"costPrice"`
	UnrealizedProfit decimal.Decimal `json:"unrealizedProfit"`
}

type DhanChainLeg struct {
	LastPrice    decimal.Decimal `json:"last_price"`
	OpenInterest int64           `json:"oi"`
}

type DhanChainRow struct {
	CE *DhanChainLeg `json:"ce"`
	PE *DhanChainLeg `json:"pe"`
}

type DhanChainResponse struct {
	Data struct {
		OC map[string]DhanChainRow `json:"oc"`
	} `json:"data"`
}

// DhanOrderAck tolerates both key spellings the sandbox has used.
type DhanOrderAck struct {
	OrderID      string `json:"orderId"`
	OrderIDSnake string `json:"order_id"`
	OrderStatus  string `json:"orderStatus"`
}
