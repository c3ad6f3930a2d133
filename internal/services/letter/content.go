package letter

import (
	"fmt"
	"strings"
	"time"

	"github.com/legalletter/legalletter/internal/models"
)

// GenerateContent детерминированно собирает текст письма из полей запроса:
// блок отправителя, дата, блок получателя, тема, изложение сути и требуемого
// разрешения, стандартная оговорка о тридцатидневном сроке ответа и подпись.
// Для одинаковых входных полей результат различается только датой.
func GenerateContent(ltr models.Letter, now time.Time) string {
	date := now.Format("January 2, 2006")
	firstName, _, _ := strings.Cut(strings.TrimSpace(ltr.RecipientName), " ")

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", ltr.SenderName, ltr.SenderAddress)
	fmt.Fprintf(&b, "%s\n\n", date)
	fmt.Fprintf(&b, "%s\n%s\n\n", ltr.RecipientName, ltr.RecipientAddress)
	fmt.Fprintf(&b, "Re: %s\n\n", ltr.Matter)
	fmt.Fprintf(&b, "Dear %s,\n\n", firstName)
	fmt.Fprintf(&b, "I am writing to formally address the matter concerning %s.\n\n", strings.ToLower(ltr.Matter))
	fmt.Fprintf(&b, "%s\n\n", ltr.Resolution)
	b.WriteString("This correspondence serves as official notice and documentation of our position " +
		"regarding this matter. We expect your prompt attention and response to facilitate a timely resolution.\n\n")
	b.WriteString("Please be advised that failure to respond within thirty (30) days of receipt of this " +
		"letter may result in further legal action being taken to protect our interests and enforce our " +
		"rights under applicable law.\n\n")
	b.WriteString("We remain open to discussing this matter in good faith and look forward to your prompt response.\n\n")
	fmt.Fprintf(&b, "Sincerely,\n\n%s\n\n", ltr.SenderName)
	b.WriteString("---\n")
	b.WriteString("This letter was generated using LegalLetter AI\n")
	fmt.Fprintf(&b, "Generated on: %s", date)
	return b.String()
}
