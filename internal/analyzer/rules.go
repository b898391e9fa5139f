package analyzer

import (
	"regexp"

	"github.com/mguerin/compagnon/pkg/types"
)

// rule pairs a compiled pattern with the tag it yields. Each dimension's
// table is evaluated in declaration order and the first matching rule wins;
// the ordering is semantically load-bearing, since earlier-declared categories
// take priority when several patterns match the same text. Reordering a
// table changes classification outcomes.
type rule[T ~string] struct {
	pattern *regexp.Regexp
	tag     T
}

func newRule[T ~string](expr string, tag T) rule[T] {
	return rule[T]{pattern: regexp.MustCompile(expr), tag: tag}
}

// intentRules maps message text to an intent, first-match-wins.
var intentRules = []rule[types.Intent]{
	newRule(`aide|aide-moi|comment|besoin|soutien|aidez`, types.IntentHelpRequest),
	newRule(`bloque|bloqué|difficile|problème|impossible|échoue|coince`, types.IntentBlockage),
	newRule(`commence|démarrer|premier|initial|initier|vas-y|allez-y`, types.IntentStartAction),
	newRule(`fini|terminé|achevé|complé|résolu|fait`, types.IntentCompletion),
	newRule(`plan|organisation|étapes|comment faire|préparer|organiser`, types.IntentPlanning),
	newRule(`procrastine|retarde|diffère|reporte|plus tard|pas envie`, types.IntentProcrastination),
	newRule(`stress|anxieux|inquiet|panique|crainte|angoissé|peur`, types.IntentAnxiety),
	newRule(`fatigué|épuisé|sans énergie|vide|crevé`, types.IntentFatigue),
	newRule(`énervé|frustré|agacé|exaspéré|marre`, types.IntentFrustration),
	newRule(`comprends pas|confus|perdu|sais pas comment|pas clair`, types.IntentConfusion),
	newRule(`motivé|enthousiaste|prêt|c'est parti|allez`, types.IntentMotivation),
	newRule(`quotidien|habitude|matin|soir|jour`, types.IntentRoutine),
	newRule(`travail|bureau|collègue|professionnel|job|tâche`, types.IntentWork),
	newRule(`personnel|maison|famille|vie privée`, types.IntentPersonal),
	newRule(`santé|médical|docteur|traitement|médicament`, types.IntentHealth),
}

// toneRules maps message text to an emotional tone, first-match-wins.
var toneRules = []rule[types.EmotionalTone]{
	newRule(`anxieux|stressé|inquiet|paniqué|craintif|angoissé|peur|appréhensif`, types.ToneAnxious),
	newRule(`triste|découragé|déprimé|mal|peine|abattu|morose`, types.ToneSad),
	newRule(`énervé|furieux|agacé|frustré|colère|ragé`, types.ToneAngry),
	newRule(`content|heureux|enthousiaste|excité|motivé|joyeux`, types.ToneHappy),
	newRule(`calme|serein|détendu|paisible|relaxé`, types.ToneCalm),
	newRule(`fatigué|épuisé|las`, types.ToneTired),
	newRule(`confus|perdu|désorienté|pas compris`, types.ToneConfused),
	newRule(`motivé|déterminé|prêt|enthousiaste`, types.ToneMotivated),
	newRule(`débordé|submergé|écrasé|trop plein`, types.ToneOverwhelmed),
}

// contextRules maps message text to a life-context type, first-match-wins.
var contextRules = []rule[types.ContextType]{
	newRule(`travail|bureau|collègue|professionnel|job|tâche|projet|réunion|équipe`, types.ContextWork),
	newRule(`maison|domicile|famille|personnel|appart|chambre|cuisine`, types.ContextHome),
	newRule(`école|études|cours|examen|révision|devoir|université|professeur`, types.ContextSchool),
	newRule(`social|amis|ami|soiree|soirée|repas|sortie|rencontre`, types.ContextSocial),
	newRule(`santé|médical|docteur|traitement|médicament|thérapie|consultation`, types.ContextHealth),
	newRule(`matin|soir|quotidien|habitude|routine|jour|nuit`, types.ContextRoutine),
	newRule(`triste|content|énervé|anxieux|stressé|émotion|ressenti`, types.ContextEmotional),
}

// urgencyRules maps message text to an urgency grade; high is tested before
// medium, anything else is low.
var urgencyRules = []rule[types.Urgency]{
	newRule(`urgent|immédiatement|vite|tout de suite|maintenant|urgence`, types.UrgencyHigh),
	newRule(`bientôt|rapidement|plutôt|si possible`, types.UrgencyMedium),
}

// complexConnectives flags subordinating structures that push a message to
// high complexity regardless of raw length.
var complexConnectives = regexp.MustCompile(`car|parce que|mais|donc|alors|si|lorsque|bien que`)

// stopWords is the fixed French stop-word set excluded from keywords.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"le", "la", "les", "de", "du", "des", "et", "ou", "mais", "pour",
		"avec", "sur", "par", "dans", "en", "un", "une", "je", "tu", "il",
		"elle", "nous", "vous", "ils", "elles", "ce", "se", "ne", "pas",
		"plus", "moins", "très", "trop", "bien", "fait", "faire", "être",
		"avoir", "vouloir", "pouvoir", "aller", "venir", "voir", "dire",
		"prendre", "donner", "savoir", "devoir", "falloir",
	} {
		stopWords[w] = struct{}{}
	}
}

func classify[T ~string](text string, rules []rule[T], fallback T) T {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.tag
		}
	}
	return fallback
}
