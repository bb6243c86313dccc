package terms

// StopWords are dropped during term extraction. Entries are already normalized.
var StopWords = map[string]bool{
	// English
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true, "nor": true,
	"if": true, "then": true, "else": true, "so": true, "of": true, "to": true, "in": true,
	"on": true, "at": true, "by": true, "for": true, "with": true, "from": true, "into": true,
	"onto": true, "about": true, "as": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "am": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "will": true, "would": true, "can": true,
	"could": true, "may": true, "might": true, "shall": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "there": true, "here": true,
	"we": true, "you": true, "your": true, "our": true, "they": true, "them": true,
	"their": true, "he": true, "she": true, "his": true, "her": true, "me": true, "my": true,
	"what": true, "which": true, "who": true, "whom": true, "when": true, "where": true,
	"why": true, "how": true, "all": true, "any": true, "some": true, "no": true, "not": true,
	"also": true, "just": true, "than": true, "too": true, "very": true, "up": true,
	"out": true, "over": true, "please": true, "let": true, "lets": true,

	// Korean
	"있다": true, "없다": true, "하기": true, "에서": true, "그리고": true, "합니다": true,
	"대한": true, "하는": true, "해야": true, "관련": true, "으로": true, "했다": true,
	"그러나": true, "하지만": true, "또는": true, "또한": true, "그래서": true, "이것": true,
	"그것": true, "저것": true, "우리": true, "저는": true, "제가": true, "있는": true,
	"없는": true, "위해": true, "통해": true, "때문에": true, "이런": true, "그런": true,
	"어떤": true, "모든": true, "등": true, "및": true, "좀": true, "주세요": true,
	"해주세요": true, "입니다": true, "있습니다": true, "합니다만": true,
}
