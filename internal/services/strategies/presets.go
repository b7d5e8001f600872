package strategies

import (
	"argus/internal/domain/rule"
)

// RuleTemplate describes one rule a preset creates
type RuleTemplate struct {
	Name            string
	RuleType        rule.Type
	Threshold       float64
	Symbol          *string // nil = applies to all holdings
	CooldownMinutes int
	Description     string
}

// Preset is a named bundle of rule templates that work together
type Preset struct {
	ID          string
	Name        string
	Description string
	Category    string // protection, profit, opportunity, balanced
	RiskLevel   string // conservative, medium, aggressive
	Rules       []RuleTemplate
}

var presets = []Preset{
	{
		ID:          "capital-preservation",
		Name:        "Capital Preservation",
		Description: "Protect your portfolio from significant losses with early warning alerts.",
		Category:    "protection",
		RiskLevel:   "conservative",
		Rules: []RuleTemplate{
			{Name: "Early Warning (-15%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 15, CooldownMinutes: 1440,
				Description: "Alert when a position drops 15% - time to review thesis"},
			{Name: "Stop Loss Warning (-25%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 25, CooldownMinutes: 720,
				Description: "Serious drawdown - consider reducing position"},
			{Name: "Critical Loss (-40%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 40, CooldownMinutes: 240,
				Description: "Major loss - urgent review required"},
		},
	},
	{
		ID:          "swing-trader",
		Name:        "Swing Trader",
		Description: "Capture profits on momentum swings using price and RSI signals.",
		Category:    "profit",
		RiskLevel:   "medium",
		Rules: []RuleTemplate{
			{Name: "Take Profit (+25%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 25, CooldownMinutes: 1440,
				Description: "Consider taking partial profits"},
			{Name: "Strong Profit (+50%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 50, CooldownMinutes: 1440,
				Description: "Excellent gain - lock in some profits"},
			{Name: "RSI Overbought", RuleType: rule.TypeRSIAboveValue, Threshold: 70, CooldownMinutes: 1440,
				Description: "Stock may be overextended - watch for reversal"},
			{Name: "RSI Oversold Entry", RuleType: rule.TypeRSIBelowValue, Threshold: 30, CooldownMinutes: 1440,
				Description: "Potential buying opportunity"},
		},
	},
	{
		ID:          "dip-hunter",
		Name:        "Dip Hunter",
		Description: "Find oversold opportunities for adding to positions.",
		Category:    "opportunity",
		RiskLevel:   "aggressive",
		Rules: []RuleTemplate{
			{Name: "Minor Dip (-10%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 10, CooldownMinutes: 2880,
				Description: "Small pullback - watch for entry"},
			{Name: "Significant Dip (-20%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 20, CooldownMinutes: 1440,
				Description: "Good dip - consider averaging down"},
			{Name: "Deep Oversold (RSI < 25)", RuleType: rule.TypeRSIBelowValue, Threshold: 25, CooldownMinutes: 720,
				Description: "Deeply oversold - high conviction entry zone"},
		},
	},
	{
		ID:          "momentum-rider",
		Name:        "Momentum Rider",
		Description: "Ride strong uptrends and exit before reversals.",
		Category:    "profit",
		RiskLevel:   "aggressive",
		Rules: []RuleTemplate{
			{Name: "Momentum Start (+15%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 15, CooldownMinutes: 1440,
				Description: "Position gaining momentum"},
			{Name: "Momentum Strong (+35%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 35, CooldownMinutes: 1440,
				Description: "Strong run - trail your stop"},
			{Name: "Moonshot (+100%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 100, CooldownMinutes: 720,
				Description: "Double! Consider taking original investment off table"},
			{Name: "Overbought Warning", RuleType: rule.TypeRSIAboveValue, Threshold: 75, CooldownMinutes: 720,
				Description: "Extreme RSI - prepare for pullback"},
		},
	},
	{
		ID:          "recovery-tracker",
		Name:        "Recovery Tracker",
		Description: "Track underwater positions recovering toward breakeven.",
		Category:    "balanced",
		RiskLevel:   "conservative",
		Rules: []RuleTemplate{
			{Name: "Recovery Started", RuleType: rule.TypePriceAboveCostPct, Threshold: -10, CooldownMinutes: 2880,
				Description: "Position recovering - down only 10%"},
			{Name: "Near Breakeven", RuleType: rule.TypePriceAboveCostPct, Threshold: -2, CooldownMinutes: 1440,
				Description: "Almost breakeven - decision time"},
			{Name: "Breakeven Reached", RuleType: rule.TypePriceAboveCostPct, Threshold: 0, CooldownMinutes: 1440,
				Description: "Back to even! Continue holding or exit?"},
		},
	},
	{
		ID:          "long-term-holder",
		Name:        "Long Term Holder",
		Description: "Minimal alerts for buy-and-hold investors. Only major events.",
		Category:    "balanced",
		RiskLevel:   "conservative",
		Rules: []RuleTemplate{
			{Name: "Major Drawdown (-30%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 30, CooldownMinutes: 10080,
				Description: "Significant drop - review but don't panic"},
			{Name: "Crash Alert (-50%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 50, CooldownMinutes: 4320,
				Description: "Major loss - thesis broken?"},
			{Name: "Big Winner (+100%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 100, CooldownMinutes: 10080,
				Description: "Doubled! Consider rebalancing"},
		},
	},
	{
		ID:          "active-trader",
		Name:        "Active Trader",
		Description: "Comprehensive alerts for hands-on portfolio management.",
		Category:    "balanced",
		RiskLevel:   "medium",
		Rules: []RuleTemplate{
			{Name: "Small Loss (-10%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 10, CooldownMinutes: 1440,
				Description: "Minor pullback"},
			{Name: "Medium Loss (-20%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 20, CooldownMinutes: 720,
				Description: "Notable drawdown"},
			{Name: "Large Loss (-35%)", RuleType: rule.TypePriceBelowCostPct, Threshold: 35, CooldownMinutes: 240,
				Description: "Significant loss - review needed"},
			{Name: "Small Gain (+15%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 15, CooldownMinutes: 1440,
				Description: "Nice gain"},
			{Name: "Good Gain (+30%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 30, CooldownMinutes: 1440,
				Description: "Solid profit"},
			{Name: "Great Gain (+50%)", RuleType: rule.TypePriceAboveCostPct, Threshold: 50, CooldownMinutes: 1440,
				Description: "Excellent - consider profit taking"},
			{Name: "RSI Oversold", RuleType: rule.TypeRSIBelowValue, Threshold: 30, CooldownMinutes: 1440,
				Description: "Oversold condition"},
			{Name: "RSI Overbought", RuleType: rule.TypeRSIAboveValue, Threshold: 70, CooldownMinutes: 1440,
				Description: "Overbought condition"},
		},
	},
}

// ListPresets returns every available preset
func ListPresets() []Preset {
	return presets
}

// GetPreset returns a preset by ID, or nil when unknown
func GetPreset(id string) *Preset {
	for i := range presets {
		if presets[i].ID == id {
			return &presets[i]
		}
	}
	return nil
}
