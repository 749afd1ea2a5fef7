package ws

// Event types pushed to subscribers. No client-to-server messages exist on
// this channel.
const (
	TypeMarketUpdate = "market_update"
	TypeServerStatus = "server_status"
)

// TickerPrice is one asset's entry in a market update.
type TickerPrice struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

// MarketUpdate carries the prices of one poll tick. A single message never
// mixes prices from two different ticks.
type MarketUpdate struct {
	Type string        `json:"type"`
	Data []TickerPrice `json:"data"`
}

func NewMarketUpdate(data []TickerPrice) MarketUpdate {
	return MarketUpdate{Type: TypeMarketUpdate, Data: data}
}

// ServerStatus carries host utilization sampled once per tick.
type ServerStatus struct {
	Type string  `json:"type"`
	CPU  float64 `json:"cpu"`
	RAM  float64 `json:"ram"`
}

func NewServerStatus(cpu, ram float64) ServerStatus {
	return ServerStatus{Type: TypeServerStatus, CPU: cpu, RAM: ram}
}
