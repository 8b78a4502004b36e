// Package hints produces the puzzle description, fun facts and difficulty rating.
package hints

import (
	"fmt"
	"strings"

	"github.com/ternarybob/candle/internal/interfaces"
)

// DescriptionPrompt asks for a redacted description and two fun facts in labelled lines.
func DescriptionPrompt(req interfaces.HintRequest) string {
	var details strings.Builder
	if req.Sector != "" {
		fmt.Fprintf(&details, "Sector: %s\n", req.Sector)
	}
	if req.Industry != "" {
		fmt.Fprintf(&details, "Industry: %s\n", req.Industry)
	}
	if req.Country != "" {
		fmt.Fprintf(&details, "Headquarters: %s\n", req.Country)
	}
	if req.IPOYear > 0 {
		fmt.Fprintf(&details, "Listed since: %d\n", req.IPOYear)
	}

	return fmt.Sprintf(`You are generating hints for a stock guessing game called canDLE. Players see an anonymized stock chart and buy hints to guess the company ticker.

Generate the following for %s (ticker: %s):
%s
1. DESCRIPTION: A 2-3 sentence description of what the company does, its products, services, and why it is notable. Be specific and helpful.

2. FUN FACT 1: A surprising, interesting, or little-known fact about the company. Could be about its history, culture, records, quirky origins, etc.

3. FUN FACT 2: Another different fun fact. Try to pick something from a different angle than fact 1.

ONLY redact words that would IMMEDIATELY give away the answer. Replace each redacted word with asterisks matching its character count:
- The company name or any part of it (e.g., "Apple" -> "*****")
- The ticker symbol (e.g., "TSLA" -> "****")
- Flagship product names that are uniquely associated with the company (e.g., "iPhone" -> "******", "Windows" -> "*******", "Big Mac" -> "*** ***")

Do NOT redact:
- General descriptions of what the company does
- CEO/founder names, these are fair game as clues
- Subsidiary or brand names that aren't dead giveaways
- Industry terms, business metrics, or general facts

Return EXACTLY in this format (3 lines, each starting with the label):
DESCRIPTION: <your description here>
FUN FACT 1: <your fun fact here>
FUN FACT 2: <your fun fact here>

No quotes, no extra explanation.`, req.Name, req.Ticker, details.String())
}

// DifficultyPrompt asks for a single digit rating of how recognisable the company is.
func DifficultyPrompt(req interfaces.HintRequest) string {
	return fmt.Sprintf(`Rate how difficult it would be for an average retail investor to identify this stock in a guessing game, on a scale of 1 to 5:

1 = Very Easy (household name, in the news constantly, e.g. Apple, Tesla, Amazon)
2 = Easy (well-known large cap, most investors would recognize, e.g. Nike, Disney, Coca-Cola)
3 = Medium (known to active investors but not general public, e.g. Broadcom, Thermo Fisher)
4 = Hard (niche or B2B company, mainly known to sector specialists, e.g. Verisign, Rollins)
5 = Very Hard (obscure S&P 500 member, most people have never heard of it, e.g. NRG Energy, Paycom)

Stock: %s (ticker: %s)
Sector: %s
Industry: %s

Reply with ONLY a single digit: 1, 2, 3, 4, or 5. No explanation.`, req.Name, req.Ticker, req.Sector, req.Industry)
}
