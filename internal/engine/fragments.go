package engine

import "github.com/mguerin/compagnon/pkg/types"

// Element tags name the reply fragments a strategy approach can combine.
// Each tag maps to a pool of French text variants in fragmentPools; pools
// with several variants rotate to avoid repetition within a session.
const (
	ElementClarification    types.ElementTag = "clarification"
	ElementBreakdown        types.ElementTag = "breakdown"
	ElementSimpleSteps      types.ElementTag = "simple_steps"
	ElementBreathing        types.ElementTag = "breathing"
	ElementGrounding        types.ElementTag = "grounding"
	ElementMicroAction      types.ElementTag = "micro_action"
	ElementImmediateAction  types.ElementTag = "immediate_action"
	ElementMotivation       types.ElementTag = "motivation"
	ElementQuickWins        types.ElementTag = "quick_wins"
	ElementAcknowledgment   types.ElementTag = "acknowledgment"
	ElementReframing        types.ElementTag = "reframing"
	ElementAlternative      types.ElementTag = "alternative"
	ElementOptions          types.ElementTag = "options"
	ElementFlexibility      types.ElementTag = "flexibility"
	ElementUserChoice       types.ElementTag = "user_choice"
	ElementSequence         types.ElementTag = "sequence"
	ElementVisualCues       types.ElementTag = "visual_cues"
	ElementConsistency      types.ElementTag = "consistency"
	ElementVariety          types.ElementTag = "variety"
	ElementEnergyManagement types.ElementTag = "energy_management"
	ElementVisualTimeline   types.ElementTag = "visual_timeline"
	ElementCheckpoints      types.ElementTag = "checkpoints"
	ElementTimeBlocks       types.ElementTag = "time_blocks"
	ElementEnergyMatching   types.ElementTag = "energy_matching"
	ElementImmediateStart   types.ElementTag = "immediate_start"
	ElementStructure        types.ElementTag = "structure"
	ElementRest             types.ElementTag = "rest"
	ElementGentleAction     types.ElementTag = "gentle_action"
	ElementQuestion         types.ElementTag = "question"
	ElementGuidance         types.ElementTag = "guidance"
	ElementReduceToAbsurd   types.ElementTag = "reduce_to_absurd"
	ElementTimeBoxing       types.ElementTag = "time_boxing"
	ElementNoPerfection     types.ElementTag = "no_perfection"
	ElementTimerChallenge   types.ElementTag = "timer_challenge"
	ElementRewardSystem     types.ElementTag = "reward_system"
	ElementPhysicalMovement types.ElementTag = "physical_movement"
	ElementFocusShift       types.ElementTag = "focus_shift"
	ElementImmediateTask    types.ElementTag = "immediate_task"
	ElementRealityCheck     types.ElementTag = "reality_check"
	ElementSensoryGrounding types.ElementTag = "sensory_grounding"
)

var fragmentPools = map[types.ElementTag][]string{
	ElementClarification: {
		"Je veux bien t'aider. Pour te donner la meilleure réponse, dis-moi précisément ce que tu veux accomplir.",
		"Je suis là pour toi ! Pour mieux t'aider, peux-tu me dire exactement ce dont tu as besoin maintenant ?",
		"Absolument ! Pour te donner la réponse la plus utile, décris-moi ta situation ou ton objectif.",
		"Bien sûr ! Plus tu me donnes de détails sur ce que tu vis, plus je pourrai t'aider efficacement.",
		"Je t'écoute. Quelle est la chose la plus importante que tu aimerais accomplir maintenant ?",
	},

	ElementBreakdown: {
		"Décomposons ça en étapes simples. Quelle est la première chose qui te vient à l'esprit quand tu penses à cette tâche ?",
	},

	ElementSimpleSteps: {
		"Voici les étapes simples :\n1. Choisis une seule action\n2. Fais-la pendant 5 minutes\n3. Dis-moi comment ça s'est passé",
	},

	ElementBreathing: {
		"Respirons ensemble :\n• Inspire par le nez pendant 4 secondes\n• Bloque ta respiration 4 secondes\n• Souffle par la bouche 4 secondes\n• Répète 3 fois",
		"Exercice de respiration carrée :\n• Inspire 4 secondes (compte jusqu'à 4)\n• Retiens 4 secondes (compte jusqu'à 4)\n• Expire 4 secondes (compte jusqu'à 4)\n• Pause 4 secondes (compte jusqu'à 4)\n• Fais 3 cycles complets",
		"Respiration apaisante :\n• Place une main sur ton ventre\n• Inspire lentement par le nez (5 secondes)\n• Expire doucement par la bouche (7 secondes)\n• Sens ta main monter et descendre\n• Continue pendant 2 minutes",
		"Technique 4-7-8 contre l'anxiété :\n• Inspire par le nez pendant 4 secondes\n• Retiens ta respiration 7 secondes\n• Souffle par la bouche 8 secondes (bruit d'océan)\n• Répète 4 fois maximum",
		"Respiration alternative :\n• Bouche une narine\n• Inspire par l'autre narine (4 secondes)\n• Change de narine\n• Expire par la première (4 secondes)\n• Alterne pendant 2 minutes",
	},

	ElementGrounding: {
		"Ancrage rapide :\n• Nomme 5 choses que tu vois\n• Touche 4 objets autour de toi\n• Écoute 3 sons\n• Sens 2 odeurs\n• Goûte 1 chose",
		"Ancrage sensoriel complet :\n• Regarde autour et nomme 4 couleurs\n• Touche 3 textures différentes\n• Écoute 2 sons distincts\n• Sens 1 température (air, objet)\n• Respire et sens ton corps",
		"Ancrage par le mouvement :\n• Tapote 5 fois sur tes cuisses\n• Étire tes bras vers le ciel (3 secondes)\n• Tourne ta tête doucement (gauche-droite)\n• Secoue tes mains (relâche la tension)\n• Pose tes pieds fermement au sol",
		"Ancrage mental rapide :\n• Trouve 3 objets bleus autour de toi\n• Compte jusqu'à 10 lentement\n• Pense à 2 choses qui te rendent heureux\n• Nomme 1 personne que tu apprécies\n• Sens ton cœur battre dans ta poitrine",
	},

	ElementMicroAction: {
		"Micro-action immédiate : Quelle est LA SEULE chose que tu peux faire maintenant qui prend moins de 30 secondes ?",
		"Action ultra-simple : Si tu devais faire UNE SEULE chose maintenant, quelle serait la plus petite action possible ?",
		"Défi micro-tâche : Trouve une action que tu peux faire en moins de 20 secondes. Lance-toi tout de suite !",
		"Premier pas minuscule : Quel est le tout premier mouvement que tu peux faire pour commencer ? Juste un geste physique.",
		"Action de 15 secondes : Chronomètre 15 secondes et fais une seule chose liée à ta tâche. C'est tout !",
	},

	ElementImmediateAction: {
		"Action immédiate ! Lève-toi, fais 10 pas, reviens. Puis lance un timer de 2 minutes sur une tâche. C'est parti !",
		"Mouvement maintenant ! Debout, étire-toi pendant 10 secondes, puis ouvre ton document. Lance un timer de 1 minute.",
		"Défi physique : Fais 5 jumping jacks, bois un verre d'eau, puis commence ta tâche pendant 90 secondes. Go !",
		"Routine d'activation : Marche sur place 30 secondes, respire profondément, puis fais UNE SEULE chose liée à ta tâche.",
		"Action éclair : Compte jusqu'à 3, lève-toi, fais une pirouette (ou pas !), puis lance un timer de 3 minutes.",
	},

	ElementMotivation: {
		"Tu peux le faire ! Chaque petit pas est une victoire. Imagine-toi déjà après avoir fait cette action. La satisfaction sera là !",
	},

	ElementQuickWins: {
		"Victoire rapide : Choisis une tâche qui prend moins de 2 minutes. Fais-la maintenant. Célébrons cette micro-victoire !",
	},

	ElementAcknowledgment: {
		"Je comprends totalement ce que tu ressens. C'est normal de se sentir comme ça dans cette situation.",
	},

	ElementReframing: {
		"Voyons ça différemment : Au lieu de 'je dois faire', pense 'je choisis de faire pour obtenir X'. Quel est ton vrai but ?",
	},

	ElementAlternative: {
		"Si cette approche ne marche pas, que dirais-tu d'essayer complètement différemment ? Quelle autre option te vient à l'esprit ?",
	},

	ElementOptions: {
		"Tu as plusieurs options :\n• Option A : Commencer très petit (30 secondes)\n• Option B : Changer d'environnement\n• Option C : Demander de l'aide\n• Laquelle te parle le plus ?",
	},

	ElementFlexibility: {
		"Sois flexible avec toi-même. Aujourd'hui peut-être que la version 'simplifiée' suffit. Demain tu pourras faire plus.",
	},

	ElementUserChoice: {
		"C'est toi qui décides. Quelle approche te semble la plus adaptée maintenant ?",
	},

	ElementSequence: {
		"Voici la séquence recommandée :\n1. Préparation (1 minute)\n2. Action principale (10 minutes)\n3. Vérification (2 minutes)",
	},

	ElementVisualCues: {
		"Utilise des repères visuels : Post-it de couleur, checklist cochée, timer visible. Ça aide ton cerveau à rester focus.",
	},

	ElementConsistency: {
		"La régularité paie. Même 5 minutes chaque jour valent mieux que 2 heures une fois par semaine.",
	},

	ElementVariety: {
		"Varions les approches ! Essayons quelque chose de différent cette fois.",
		"Changeons de perspective ! Une autre stratégie pourrait mieux fonctionner.",
		"Nouvelle approche ! Testons une méthode alternative.",
		"Variation intéressante ! Essayons un angle différent.",
	},

	ElementEnergyManagement: {
		"Gère ton énergie : Fais les tâches difficiles quand tu as le plus d'énergie. Les tâches simples pour les moments creux.",
	},

	ElementVisualTimeline: {
		"Timeline visuelle :\n[9h] Check emails (15 min)\n[9:15] Tâche principale (45 min)\n[10h] Pause (10 min)\n[10:10] Tâche secondaire (30 min)",
	},

	ElementCheckpoints: {
		"Points de contrôle :\n• Après 25 min : Est-ce que je progresse ?\n• Après 50 min : Est-ce que je dois ajuster ?\n• À la fin : Qu'ai-je accompli ?",
	},

	ElementTimeBlocks: {
		"Crée des blocs de temps :\n• 9:00-9:25 : Focus total\n• 9:25-9:30 : Pause\n• 9:30-9:55 : Focus total\n• 9:55-10:00 : Pause",
	},

	ElementEnergyMatching: {
		"Adapte les tâches à ton énergie :\n• Énergie haute : Tâches difficiles\n• Énergie moyenne : Tâches modérées\n• Énergie basse : Tâches simples",
	},

	ElementImmediateStart: {
		"Commence maintenant ! Compte jusqu'à 3 et lance l'action. 1... 2... 3... C'est parti !",
	},

	ElementStructure: {
		"Structure claire :\nObjectif → Étapes → Temps → Validation. Simple et efficace.",
		"Organisons ça ensemble :\n1. Quel est ton objectif principal ?\n2. Quelles étapes pour y arriver ?\n3. Combien de temps par étape ?\n4. Comment vérifier que c'est fait ?",
		"Créons un plan simple :\n• Objectif précis\n• Actions concrètes\n• Temps défini\n• Résultat visible",
		"Plan d'action minimaliste :\n1. CHOISIR une seule chose\n2. DÉCOMPOSER en micro-étapes\n3. CHRONOMÉTRER chaque étape\n4. CÉLÉBRER chaque victoire",
	},

	ElementRest: {
		"Le repos est productif. 5 minutes de vrai repos te donneront plus d'énergie que 30 minutes de lutte.",
	},

	ElementGentleAction: {
		"Action douce : Fais juste 10% de ce que tu avais prévu. C'est déjà une victoire.",
	},

	ElementQuestion: {
		"Question pour t'aider : Quelle serait la version la plus simple possible de cette action ?",
	},

	ElementGuidance: {
		"Je suis là pour te guider. Dis-moi où tu en es et je t'indiquerai la prochaine étape.",
	},

	ElementReduceToAbsurd: {
		"Réduisons à l'absurde : Au lieu de 'finir le rapport', essaie 'ouvrir le document'. C'est tout. Juste ça.",
	},

	ElementTimeBoxing: {
		"Time-box : Timer 5 minutes maximum. Peu importe le résultat, tu t'arrêtes après 5 minutes. Pas de pression.",
	},

	ElementNoPerfection: {
		"Oublie la perfection. Visons 'suffisamment bien'. 80% de qualité = 100% de réussite.",
	},

	ElementTimerChallenge: {
		"Défi timer : Peux-tu faire 2 minutes de travail concentré ? Lance le timer maintenant ! Go go go !",
	},

	ElementRewardSystem: {
		"Système de récompense : Si tu fais 10 minutes de travail, tu t'offres 5 minutes de musique/pause/snack.",
	},

	ElementPhysicalMovement: {
		"Mouvement physique : Lève-toi, étire-toi 30 secondes, saute sur place 3 fois. L'énergie circule !",
	},

	ElementFocusShift: {
		"Change de focus : Pense à quelque chose de complètement différent pendant 30 secondes, puis reviens à la tâche.",
	},

	ElementImmediateTask: {
		"Tâche immédiate : Quelle petite action peux-tu faire LÀ MAINTENANT, sans réfléchir ?",
	},

	ElementRealityCheck: {
		"Vérification réalité : Quel est le pire qui pourrait arriver si tu ne fais pas ça parfaitement ? Est-ce vraiment grave ?",
	},

	ElementSensoryGrounding: {
		"Ancrage sensoriel : Touche quelque chose de texture différente, sens une odeur agréable, regarde un objet coloré.",
	},
}

// fallbackLeadIns prefix the first variant when every variant of a pool has
// already been used in the session, so even exhaustion doesn't produce a
// byte-identical repeat.
var fallbackLeadIns = []string{
	"Essayons cette approche : ",
	"Voici une version adaptée : ",
	"Cette fois-ci : ",
	"Alternative : ",
	"Nouvelle tentative : ",
}

// defaultResponses answer messages that match no learned pattern and no
// specific strategy cue.
var defaultResponses = []string{
	"Je suis là pour t'aider ! Dis-moi ce qui te préoccupe et on va trouver une solution ensemble.",
	"Je t'écoute. Quelle est la chose la plus importante que tu aimerais aborder maintenant ?",
	"Je suis ton assistant. Comment puis-je t'être utile en ce moment ?",
	"Bonjour ! Je suis là pour toi. Parle-moi de ta situation et je t'aiderai pas à pas.",
	"Je suis prêt à t'aider ! Décris-moi ce que tu vis et on trouvera la meilleure approche pour toi.",
}

// greetingResponses answer short standalone greetings; nothing heavier is
// warranted for "salut".
var greetingResponses = []string{
	"Salut ! Comment tu vas aujourd'hui ?",
	"Bonjour ! Je suis là pour toi. Qu'est-ce qui te passe par la tête ?",
	"Hello ! Ravi de te voir. Comment puis-je t'aider ?",
	"Coucou ! Dis-moi tout, je t'écoute.",
	"Salut ! Content de te voir. Besoin d'aide pour quelque chose ?",
}
