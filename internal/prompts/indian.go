package prompts

// ── Indian Market–Specific Formatting & Context ──

// IndianMarketContext provides India-specific market context for agent prompts.
const IndianMarketContext = `
## Indian Market Context
- Exchange: NSE (National Stock Exchange) / BSE (Bombay Stock Exchange)
- Currency: Indian Rupee (₹ / INR)
- Market Hours: 9:15 AM – 3:30 PM IST (Pre-open: 9:00–9:15 AM)
- Settlement: T+1 rolling settlement
- Circuit Limits: 5%, 10%, 20% circuit breakers on stocks; index-wide halts at 10%, 15%, 20%
- Key Indices: NIFTY 50, NIFTY Bank, NIFTY IT, NIFTY Midcap 150, India VIX
`

// IndianNumberFormat describes Indian number formatting rules for agents.
const IndianNumberFormat = `
## Number Formatting Rules (Indian Convention)
- Use ₹ prefix for all monetary values: ₹2,847.50
- Indian comma grouping: ₹12,34,567 (not ₹1,234,567)
- Large numbers: Lakhs ₹1,00,000 (₹1L), Crores ₹1,00,00,000 (₹1Cr)
- Percentages: Always include % symbol: RSI 62.4%, PE 19.8x
- Time: IST (Indian Standard Time, UTC+5:30)
`

// IndianMarketPromptSuffix returns a prompt suffix with Indian market context.
func IndianMarketPromptSuffix() string {
	return IndianMarketContext + IndianNumberFormat
}

// NSESectors lists key NSE sector classifications.
var NSESectors = map[string][]string{
	"IT":            {"TCS", "INFY", "WIPRO", "HCLTECH", "TECHM", "LTIM", "MPHASIS", "COFORGE", "PERSISTENT"},
	"Banking":       {"HDFCBANK", "ICICIBANK", "KOTAKBANK", "SBIN", "AXISBANK", "INDUSINDBK", "BANDHANBNK", "FEDERALBNK"},
	"NBFC":          {"BAJFINANCE", "BAJAJFINSV", "CHOLAFIN", "MUTHOOTFIN", "M&MFIN"},
	"Pharma":        {"SUNPHARMA", "DRREDDY", "CIPLA", "DIVISLAB", "BIOCON", "AUROPHARMA", "LUPIN", "TORNTPHARM"},
	"Auto":          {"MARUTI", "TATAMOTORS", "M&M", "BAJAJ-AUTO", "HEROMOTOCO", "ASHOKLEY", "EICHERMOT"},
	"Oil & Gas":     {"RELIANCE", "ONGC", "IOC", "BPCL", "HINDPETRO", "GAIL", "PETRONET"},
	"Metal":         {"TATASTEEL", "HINDALCO", "JSWSTEEL", "VEDL", "NATIONALUM", "COALINDIA", "NMDC"},
	"FMCG":          {"HINDUNILVR", "ITC", "NESTLEIND", "BRITANNIA", "DABUR", "GODREJCP", "MARICO", "COLPAL"},
	"Cement":        {"ULTRACEMCO", "GRASIM", "SHREECEM", "AMBUJACEM", "ACC", "RAMCOCEM"},
	"Telecom":       {"BHARTIARTL", "IDEA", "TATACOMM"},
	"Power":         {"NTPC", "POWERGRID", "TATAPOWER", "ADANIPOWER", "NHPC", "SJVN"},
	"Infra":         {"ADANIENT", "ADANIPORTS", "IRB", "NBCC", "KEC"},
	"Insurance":     {"SBILIFE", "HDFCLIFE", "ICICIPRULI", "STARHEALTH"},
	"Realty":        {"DLF", "GODREJPROP", "OBEROIRLTY", "PHOENIXLTD", "PRESTIGE", "BRIGADE"},
	"Capital Goods": {"ABB", "SIEMENS", "HAL", "BEL", "BHEL", "CUMMINSIND"},
}

// SectorForTicker returns the sector classification for a given NSE ticker.
// Returns empty string if the ticker is not in any known sector.
func SectorForTicker(ticker string) string {
	for sector, tickers := range NSESectors {
		for _, t := range tickers {
			if t == ticker {
				return sector
			}
		}
	}
	return ""
}

// KnownTicker reports whether the ticker appears in the sector map.
func KnownTicker(ticker string) bool {
	return SectorForTicker(ticker) != ""
}

// SectorPeers returns peer tickers for the given ticker's sector,
// excluding the ticker itself.
func SectorPeers(ticker string) []string {
	sector := SectorForTicker(ticker)
	if sector == "" {
		return nil
	}
	tickers := NSESectors[sector]
	peers := make([]string, 0, len(tickers)-1)
	for _, t := range tickers {
		if t != ticker {
			peers = append(peers, t)
		}
	}
	return peers
}

// QuickQueries are the canned analysis prompts offered by the UI.
var QuickQueries = []string{
	"What are the best NSE stocks to buy today?",
	"Find me momentum stocks from today's top gainers",
	"Which IT sector stocks look strong this week?",
	"Suggest two banking stocks with positive news",
	"Any pharma stocks worth a short-term trade?",
}
