package intent

// The classifier is table-driven: ordered (markers, outcome) rows evaluated
// top to bottom, first match wins. Marker vocabulary is bilingual because the
// prompt library serves both Chinese and English queries. New rows extend
// behavior without touching classification logic.

type actionRule struct {
	markers []string
	action  Action
}

// Broad markers ("写"/"write") sit last so specific verbs win; "改写" must
// resolve to transform before "写" resolves to create.
var actionRules = []actionRule{
	{[]string{"总结", "摘要", "概括", "summarize", "summarise", "summary", "tldr"}, ActionSummarize},
	{[]string{"翻译", "译成", "translate", "translation"}, ActionTranslate},
	{[]string{"改写", "转换", "转成", "重写", "convert", "transform", "rewrite", "rephrase"}, ActionTransform},
	{[]string{"优化", "改进", "润色", "提升", "optimize", "optimise", "improve", "polish", "refine"}, ActionOptimize},
	{[]string{"分析", "评估", "检查", "analyze", "analyse", "review", "evaluate", "assess"}, ActionAnalyze},
	{[]string{"解释", "说明", "讲解", "explain", "clarify", "what is", "什么是"}, ActionExplain},
	{[]string{"写", "生成", "创建", "起草", "write", "create", "generate", "draft", "compose", "make me"}, ActionCreate},
}

type domainRule struct {
	markers []string
	domain  Domain
}

// Marketing sits before writing so "文案"/"copywriting" resolves there.
var domainRules = []domainRule{
	{[]string{"代码", "函数", "程序", "接口", "code", "coding", "bug", "debug", "function", "api", "sql", "python", "javascript", "regex"}, DomainCoding},
	{[]string{"邮件", "商务", "会议", "报告", "简历", "合同", "email", "mail", "business", "meeting", "report", "resume", "proposal"}, DomainBusiness},
	{[]string{"营销", "广告", "推广", "文案", "marketing", "advertis", "promotion", "slogan", "seo", "copywriting"}, DomainMarketing},
	{[]string{"学习", "教学", "课程", "考试", "练习", "learn", "teach", "course", "lesson", "exam", "tutorial", "study"}, DomainEducation},
	{[]string{"创意", "设计", "绘画", "头脑风暴", "creative", "design", "poem", "brainstorm", "art", "story idea"}, DomainCreative},
	{[]string{"文章", "博客", "故事", "小说", "论文", "article", "blog", "essay", "novel", "writing", "paragraph"}, DomainWriting},
}

type synonymEntry struct {
	key   string
	terms []string
}

// Every entry whose key appears as a substring of the lowercased query
// contributes all its terms to the semantic keyword set.
var synonymTable = []synonymEntry{
	{"邮件", []string{"email", "mail", "信件"}},
	{"email", []string{"邮件", "mail", "letter"}},
	{"写", []string{"write", "create", "compose"}},
	{"write", []string{"compose", "draft"}},
	{"代码", []string{"code", "program"}},
	{"code", []string{"代码", "program"}},
	{"总结", []string{"summary", "summarize"}},
	{"summar", []string{"总结", "摘要"}},
	{"翻译", []string{"translate", "translation"}},
	{"translat", []string{"翻译"}},
	{"文章", []string{"article", "essay"}},
	{"article", []string{"文章", "essay"}},
	{"商务", []string{"business", "professional"}},
	{"business", []string{"商务", "professional"}},
	{"分析", []string{"analyze", "analysis"}},
	{"报告", []string{"report", "document"}},
	{"简历", []string{"resume", "cv"}},
}

var actionTags = map[Action][]string{
	ActionCreate:    {"generation", "writing"},
	ActionAnalyze:   {"analysis"},
	ActionTransform: {"conversion"},
	ActionTranslate: {"translation"},
	ActionSummarize: {"summary"},
	ActionOptimize:  {"optimization"},
	ActionExplain:   {"explanation"},
}

var domainTags = map[Domain][]string{
	DomainBusiness:  {"business", "professional"},
	DomainCoding:    {"coding", "programming"},
	DomainWriting:   {"writing", "content"},
	DomainMarketing: {"marketing", "copywriting"},
	DomainEducation: {"education", "learning"},
	DomainCreative:  {"creative", "design"},
}

var domainCategories = map[Domain][]string{
	DomainBusiness:  {"business"},
	DomainCoding:    {"programming"},
	DomainWriting:   {"writing"},
	DomainMarketing: {"marketing"},
	DomainEducation: {"education"},
	DomainCreative:  {"creative"},
}

type trigger struct {
	markers []string
	value   string
}

var tagTriggers = []trigger{
	{[]string{"模板", "格式", "template", "format"}, "template"},
	{[]string{"正式", "商务", "professional", "formal"}, "professional"},
	{[]string{"简单", "快速", "quick", "simple"}, "quick"},
	{[]string{"详细", "深入", "detailed", "in-depth"}, "detailed"},
}

var categoryTriggers = []trigger{
	{[]string{"邮件", "email", "mail"}, "business"},
	{[]string{"代码", "code", "bug", "sql"}, "programming"},
	{[]string{"翻译", "translate"}, "translation"},
	{[]string{"广告", "文案", "slogan"}, "marketing"},
}

var formalMarkers = []string{"正式", "商务", "礼貌", "professional", "formal", "polite", "official"}
var casualMarkers = []string{"随意", "轻松", "口语", "casual", "friendly", "informal", "chill"}

var urgentMarkers = []string{"紧急", "急", "马上", "立刻", "尽快", "urgent", "asap", "immediately", "right now"}

var complexMarkers = []string{"详细", "全面", "深入", "系统", "detailed", "comprehensive", "in-depth", "thorough"}
