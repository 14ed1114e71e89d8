package classify

// Lexicons are matched as lower-case substrings against folded text, so
// every phrase here must already be lower case. Some phrases carry a
// trailing space on purpose ("trans ") to avoid matching longer words.

// tier1Phrases are specific enough to mark an item relevant on their own.
var tier1Phrases = []string{
	"gender equality", "gender gap", "gender pay gap", "reproductive rights",
	"reproductive justice", "abortion", "women's rights", "women's health",
	"sexism", "misogyny", "patriarchy", "period poverty", "menstrual",
	"domestic violence", "gender violence", "gender-based violence",
	"sexual harassment", "metoo", "me too movement", "#metoo", "femicide",
	"women in leadership", "women in sport", "maternal mortality",
	"gay rights", "trans rights", "same-sex", "coming out", "homophobia",
	"transphobia", "biphobia", "conversion therapy", "gender affirming",
	"gender identity", "deadnaming", "two-spirit", "marriage equality",
	"section 28", "don't say gay", "drag queen", "drag king",
	"human rights", "civil rights", "civil liberties", "minority rights",
	"indigenous rights", "racial justice", "asylum seeker", "refugee rights",
	"hate crime",
}

// identityTerms are strong identity nouns that qualify an item without any
// other signal.
var identityTerms = []string{
	"feminism", "feminist", "lgbt", "lgbtq", "lgbtqia", "queer", "lesbian",
	"bisexual", "transgender", "nonbinary", "non-binary", "intersex",
	"asexual", "pansexual",
}

// tier2Phrases are broad socioeconomic and political terms. They only count
// when an identityContextCues phrase appears in the same text.
var tier2Phrases = []string{
	"equality", "inequality", "equal pay", "health", "healthcare",
	"election", "vote", "economy", "economic", "poverty", "justice",
	"freedom", "discrimination", "oppression", "persecution", "rights",
	"law", "court", "policy", "education", "employment", "workplace",
	"violence", "safety", "protest", "immigration", "migration", "border",
	"deportation", "detention", "citizenship", "visa", "displacement",
	"sport", "culture",
}

// identityContextCues mark the identity dimension required by tier 2.
var identityContextCues = []string{
	"women", "woman", "girl", "female", "mother", "maternal", "maternity",
	"gender", "queer", "gay", "lesbian", "trans ", "transgender", "lgbt",
	"pride", "refugee", "migrant", "immigrant", "asylum", "undocumented",
	"diaspora", "indigenous", "minority", "minorities", "racism", "racial",
}

// womenTerms and lgbtqiaTerms drive the two identity tags.
var womenTerms = []string{
	"women", "woman", "girl", "girls", "female", "feminine", "feminism",
	"feminist", "gender", "reproductive", "abortion", "maternity",
	"maternal", "sexism", "misogyny", "patriarchy", "period poverty",
	"menstrual", "domestic violence", "sexual harassment", "metoo",
	"me too", "femicide",
}

var lgbtqiaTerms = []string{
	"lgbt", "lgbtq", "lgbtqia", "queer", "gay", "lesbian", "bisexual",
	"transgender", "trans ", "nonbinary", "non-binary", "intersex",
	"asexual", "pansexual", "pride", "drag", "same-sex", "homophobia",
	"transphobia", "biphobia", "conversion therapy", "gender affirming",
	"pronouns", "two-spirit", "marriage equality",
}

type topicLexicon struct {
	name    string
	phrases []string
}

var topicLexicons = []topicLexicon{
	{
		name: TopicReproductiveRights,
		phrases: []string{
			"reproductive", "abortion", "pro-choice", "pro-life", "roe v wade",
			"roe v. wade", "planned parenthood", "birth control", "contraception",
			"contraceptive", "fertility", "ivf", "pregnancy", "pregnant",
			"miscarriage", "stillbirth", "maternal mortality", "midwife",
			"midwifery", "gynecolog", "obstetric", "prenatal", "postnatal",
			"surrogacy", "reproductive justice", "bodily autonomy",
			"menstrual", "period poverty", "menstruation",
		},
	},
	{
		name: TopicGenderPayGap,
		phrases: []string{
			"pay gap", "wage gap", "equal pay", "gender pay", "salary gap",
			"income inequality", "glass ceiling", "gender gap", "pay equity",
			"pay disparity", "compensation gap", "wage disparity",
			"women in leadership", "women on boards", "gender parity",
			"workplace equality", "career gap", "promotion gap",
			"motherhood penalty",
		},
	},
	{
		name: TopicLGBTQIA,
		phrases: []string{
			"lgbt", "lgbtq", "lgbtqia", "queer", "gay", "lesbian", "bisexual",
			"transgender", "trans ", "nonbinary", "non-binary", "intersex",
			"asexual", "pansexual", "pride", "drag", "same-sex", "gay rights",
			"trans rights", "coming out", "homophobia", "transphobia",
			"biphobia", "conversion therapy", "gender affirming", "gender identity",
			"pronouns", "deadnaming", "two-spirit", "queer community",
			"marriage equality", "don't say gay", "drag queen", "drag king",
		},
	},
	{
		name: TopicImmigration,
		phrases: []string{
			"immigration", "immigrant", "refugee", "asylum", "migrant",
			"migration", "deportation", "border", "undocumented", "visa",
			"citizenship", "detention", "displacement", "diaspora",
			"sanctuary", "dreamers", "daca", "resettlement", "exile",
			"stateless", "trafficking", "smuggling", "xenophobia",
		},
	},
	{
		name: TopicHumanRights,
		phrases: []string{
			"human rights", "civil rights", "civil liberties",
			"minority rights", "indigenous rights", "racial justice",
			"protest", "activist", "activism",
			"censorship", "free speech", "political prisoner", "genocide",
			"ethnic cleansing", "apartheid", "reparation", "dignity",
			"amnesty", "un human rights", "humanitarian",
		},
	},
	{
		name: TopicHealthMedicine,
		phrases: []string{
			"health", "medical", "healthcare", "medication", "clinic",
			"mental health", "therapy", "therapist", "diagnosis", "treatment",
			"hormone", "hrt", "wellness", "eating disorder", "body image",
			"gender affirming care", "puberty blocker", "surgery",
			"hiv", "aids", "cancer", "breast cancer", "cervical",
			"pandemic", "vaccination", "disease",
		},
	},
	{
		name: TopicLawPolicy,
		phrases: []string{
			"law", "legal", "court", "lawsuit", "legislation", "bill",
			"policy", "amendment", "constitution", "ruling",
			"supreme court", "judge", "attorney", "lawyer", "prosecut",
			"ban", "repeal", "overturn", "regulation",
			"executive order", "mandate", "ordinance", "statute",
			"section 28", "don't say gay",
		},
	},
	{
		name: TopicPoliticsGovernment,
		phrases: []string{
			"election", "vote", "voting", "politician", "congress",
			"senate", "parliament", "minister", "president", "governor",
			"campaign", "candidate", "political", "democrat", "republican",
			"liberal", "conservative", "progressive",
			"government", "administration", "white house", "cabinet",
			"appointment", "nomination", "inaugurat", "lobby",
		},
	},
	{
		name: TopicCultureMedia,
		phrases: []string{
			"film", "movie", "cinema", "television", "tv show", "netflix",
			"book", "novel", "author", "writer", "poet", "poetry",
			"music", "singer", "album", "concert", "festival",
			"art", "artist", "exhibition", "gallery", "museum",
			"fashion", "documentary", "podcast", "interview", "celebrity",
			"drag race", "drag queen", "drag king", "performance",
			"theater", "theatre", "broadway", "award", "oscar", "emmy",
			"representation", "visibility", "icon",
		},
	},
	{
		name: TopicSports,
		phrases: []string{
			"sport", "athlete", "olympic", "competition", "championship",
			"football", "soccer", "basketball", "tennis", "swimming",
			"running", "marathon", "rugby", "cricket", "boxing",
			"world cup", "title ix", "women in sport", "team",
			"coach", "player", "league", "tournament", "medal",
			"transgender athlete", "inclusion in sport",
			"fifa", "ioc", "wta", "wnba",
		},
	},
	{
		name: TopicViolenceSafety,
		phrases: []string{
			"violence", "assault", "attack", "murder", "killed",
			"domestic violence", "abuse", "abuser", "victim", "survivor",
			"rape", "sexual assault", "sexual violence", "harassment",
			"hate crime", "hate speech", "threat", "stalking",
			"trafficking", "femicide", "gender-based violence",
			"bullying", "discrimination", "bigotry", "prejudice",
			"safety", "shelter", "protection order", "restraining order",
		},
	},
	{
		name: TopicWorkplaceEconomics,
		phrases: []string{
			"workplace", "employment", "employer", "employee", "job",
			"career", "hire", "hiring", "fired", "layoff",
			"ceo", "board", "leadership", "promotion",
			"discrimination at work", "harassment at work", "hostile work",
			"entrepreneurship", "startup", "business", "economy",
			"poverty", "welfare", "childcare", "parental leave",
			"maternity leave", "paternity leave", "work-life balance",
		},
	},
}

// paywallSignals appear in teaser text of subscriber-only articles.
var paywallSignals = []string{
	"subscribe to read", "subscribe to continue", "sign in to read",
	"log in to read", "login to read", "subscribers only",
	"subscriber-only", "for subscribers", "exclusive to subscribers",
	"to continue reading", "register to read", "become a member to read",
	"premium article", "premium content", "paywall", "this article is for",
	"unlock this article", "already a subscriber",
}

// adIndicators mark sponsored or promotional entries.
var adIndicators = []string{
	"sponsored content", "sponsored post", "[sponsored]", "sponsored:",
	"advertisement", "advertorial", "paid content", "paid partnership",
	"partner content", "promoted content", "promo code", "coupon code",
	"discount code", "shop now", "buy now", "affiliate link",
	"deal of the day", "best deals",
}
