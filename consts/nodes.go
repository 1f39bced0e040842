package consts

// Graph node keys. These double as the agent identifiers carried on
// transcript messages and websocket events.
const (
	StockFinder      = "stock_finder"
	MarketData       = "market_data"
	NewsAnalyst      = "news_analyst"
	PriceRecommender = "price_recommender"

	// Supervisor is not a graph node; it signs the final verdict message.
	Supervisor = "supervisor"

	// Finish is the branch label that routes to graph termination.
	Finish = "finish"
)

// Order is the fixed execution sequence of the analysis pipeline.
var Order = []string{StockFinder, MarketData, NewsAnalyst, PriceRecommender}

// DisplayNames maps node keys to the names shown in the UI and spoken
// in voice introductions.
var DisplayNames = map[string]string{
	StockFinder:      "Stock Finder",
	MarketData:       "Market Data Analyst",
	NewsAnalyst:      "News Analyst",
	PriceRecommender: "Price Recommender",
	Supervisor:       "Supervisor",
}

// DisplayName returns the human-readable name for a node key, falling
// back to the key itself for unknown agents.
func DisplayName(key string) string {
	if name, ok := DisplayNames[key]; ok {
		return name
	}
	return key
}
