package classifier

import (
	"github.com/tomu1969/pai-personal-ai-sub004/internal/core"
	"github.com/tomu1969/pai-personal-ai-sub004/internal/textutil"
)

// Lexicon holds the keyword tables driving classification. A Lexicon is
// immutable after construction: runtime updates build a replacement table and
// swap it into the classifier atomically, so a reader never observes a
// partially-updated list.
//
// All entries are stored lowercase with diacritics folded. Single-word
// entries match on word boundaries; entries containing a space match as
// substrings of the folded text.
type Lexicon struct {
	Categories map[core.Category][]string

	UrgentSignals     []string
	ImportanceSignals []string

	Greetings      []string
	Gratitude      []string
	Confirmations  []string
	Requests       []string
	Interrogatives []string

	SpanishMarkers []string
	EnglishMarkers []string

	Positive []string
	Negative []string

	SpamPhrases []string
	LinkBait    []string
	BotNames    []string
}

// CategoryOrder is the fixed tie-break order for category scoring: the
// earlier category wins when scores are equal.
var CategoryOrder = []core.Category{
	core.CategoryUrgent,
	core.CategoryBusiness,
	core.CategorySupport,
	core.CategorySales,
	core.CategoryPersonal,
	core.CategorySpam,
	core.CategoryOther,
}

// DefaultLexicon returns the built-in English/Spanish keyword tables.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Categories: map[core.Category][]string{
			core.CategoryUrgent: {
				"urgent", "urgente", "emergency", "emergencia", "asap",
				"immediately", "immediate", "critical", "critico",
				"right away", "right now", "ahora mismo", "lo antes posible",
			},
			core.CategoryBusiness: {
				"meeting", "reunion", "project", "proyecto", "invoice",
				"factura", "contract", "contrato", "proposal", "propuesta",
				"deadline", "client", "cliente", "report", "informe",
				"office", "oficina", "schedule", "agenda",
			},
			core.CategorySupport: {
				"help", "ayuda", "problem", "problema", "issue", "error",
				"broken", "not working", "no funciona", "fix", "arreglar",
				"support", "soporte", "trouble", "falla",
			},
			core.CategorySales: {
				"price", "precio", "buy", "comprar", "purchase", "order",
				"pedido", "cost", "costo", "discount", "descuento", "quote",
				"cotizacion", "sell", "vender", "payment", "pago", "offer",
				"oferta",
			},
			core.CategoryPersonal: {
				"family", "familia", "friend", "amigo", "birthday",
				"cumpleanos", "dinner", "cena", "weekend", "fin de semana",
				"vacation", "vacaciones", "party", "fiesta",
			},
			core.CategorySpam: {
				"you won", "click here", "free money", "congratulations",
				"winner", "prize", "lottery", "felicidades", "premio",
				"gratis", "limited time", "unsubscribe", "promocion",
			},
		},
		UrgentSignals: []string{
			"urgent", "urgente", "emergency", "emergencia", "asap",
			"immediately", "immediate", "critical", "critico", "right away",
			"ahora mismo",
		},
		ImportanceSignals: []string{
			"important", "importante", "deadline", "priority", "prioridad",
			"crucial",
		},
		Greetings: []string{
			"hello", "hi", "hey", "good morning", "good afternoon",
			"good evening", "hola", "buenos dias", "buenas tardes",
			"buenas noches", "saludos",
		},
		Gratitude: []string{
			"thanks", "thank you", "thx", "gracias", "muchas gracias",
			"appreciated", "agradecido",
		},
		Confirmations: []string{
			"ok", "okay", "yes", "sure", "si", "claro", "correct",
			"confirmed", "perfecto", "dale", "yep", "yeah", "listo",
		},
		Requests: []string{
			"please", "por favor", "could you", "can you", "would you",
			"podrias", "puedes", "necesito que",
		},
		Interrogatives: []string{
			"what", "how", "why", "when", "where", "who", "which", "can",
			"could", "would", "do", "does", "is", "are", "que", "como",
			"cuando", "donde", "quien", "cual", "puede", "puedes",
		},
		SpanishMarkers: []string{
			"hola", "gracias", "necesito", "ayuda", "por favor",
			"buenos dias", "buenas tardes", "buenas noches", "que", "como",
			"donde", "cuando", "porque", "usted", "tengo", "quiero",
		},
		EnglishMarkers: []string{
			"hello", "hi", "hey", "thanks", "thank you", "please", "the",
			"this", "have", "need", "want", "would", "could",
		},
		Positive: []string{
			"thanks", "thank", "great", "good", "excellent", "perfect",
			"awesome", "amazing", "love", "happy", "wonderful", "gracias",
			"excelente", "genial", "bueno", "feliz", "perfecto",
		},
		Negative: []string{
			"bad", "terrible", "awful", "horrible", "hate", "angry",
			"upset", "disappointed", "worst", "wrong", "broken", "malo",
			"enojado", "molesto", "pesimo",
		},
		SpamPhrases: []string{
			"you won", "you have won", "click here", "free money",
			"claim your", "make money fast", "work from home",
			"limited time offer", "act now", "100% free", "guaranteed",
			"has ganado", "dinero gratis", "haz clic", "premio gratis",
		},
		LinkBait: []string{
			"click here", "click the link", "haz clic", "click below",
		},
		BotNames: []string{
			"bot", "automated", "auto-reply", "autoreply", "noreply",
			"no-reply",
		},
	}
}

// WithCategoryKeywords returns a copy of the lexicon with extra keywords
// appended to the named categories. The receiver is left untouched.
func (l *Lexicon) WithCategoryKeywords(extra map[string][]string) *Lexicon {
	if len(extra) == 0 {
		return l
	}
	clone := *l
	clone.Categories = make(map[core.Category][]string, len(l.Categories))
	for cat, kws := range l.Categories {
		clone.Categories[cat] = append([]string(nil), kws...)
	}
	for name, kws := range extra {
		cat := core.Category(name)
		for _, kw := range kws {
			kw = textutil.FoldDiacritics(normalizeKeyword(kw))
			if kw != "" {
				clone.Categories[cat] = append(clone.Categories[cat], kw)
			}
		}
	}
	return &clone
}
