package scraper

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-scrape-threads/models"
)

// PageURL builds the first listing page of target. The time window only
// applies to the top category.
func PageURL(origin, target string, category models.Category, period models.TimePeriod) string {
	origin = strings.TrimRight(origin, "/")
	if category == models.CategoryTop {
		return fmt.Sprintf("%s/r/%s/top/?sort=top&t=%s", origin, target, period)
	}
	return fmt.Sprintf("%s/r/%s/%s", origin, target, category)
}
