package campaign

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderPrompt lists the campaigns as a 1-based numbered list and asks for
// the number of the best match for lead.
func RenderPrompt(lead Lead, campaigns []Campaign) string {
	var b strings.Builder

	b.WriteString("You assign sales leads to marketing campaigns.\n\n")
	b.WriteString("Lead:\n")
	fmt.Fprintf(&b, "- Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "- Industry: %s\n", orNotProvided(lead.Industry))
	fmt.Fprintf(&b, "- Keywords: %s\n", orNotProvided(strings.Join(lead.Keywords, ", ")))

	b.WriteString("\nCampaigns:\n")
	for i, c := range campaigns {
		fmt.Fprintf(&b, "%d. %s (keywords: %s)\n", i+1, c.Name, orNotProvided(strings.Join(c.Keywords, ", ")))
	}

	fmt.Fprintf(&b, "\nReply with only the number (1-%d) of the campaign that best matches this lead.", len(campaigns))
	return b.String()
}

// ParseRecommendation turns a completion reply into a zero-based index into
// a list of n campaigns. Only the text before the first period is read.
func ParseRecommendation(reply string, n int) (int, error) {
	head, _, _ := strings.Cut(reply, ".")
	head = strings.TrimSpace(head)

	number, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("%w: reply %q is not a campaign number", ErrRecommendationParse, reply)
	}

	index := number - 1
	if index < 0 || index >= n {
		return 0, fmt.Errorf("%w: campaign %d is outside 1..%d", ErrRecommendationParse, number, n)
	}
	return index, nil
}

func orNotProvided(value string) string {
	if strings.TrimSpace(value) == "" {
		return "not provided"
	}
	return value
}
