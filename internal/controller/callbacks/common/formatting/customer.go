package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
)

// FormatCustomerList страница списка клиентов; offset - номер первого на странице
func FormatCustomerList(customers []model.Customer, offset, total int) string {
	if total == 0 {
		return "👥 Клиентов пока нет."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 %d %s\n", total, PluralizeCustomers(total))
	for i, c := range customers {
		fmt.Fprintf(&b, "\n%d. %s · %s", offset+i+1, c.Name, c.Phone)
		if c.BirthDate != nil {
			fmt.Fprintf(&b, " · 🎂 %s", FormatDate(*c.BirthDate))
		}
	}
	return b.String()
}
