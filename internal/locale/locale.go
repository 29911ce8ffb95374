// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package locale

import (
	"github.com/jeranaias/apexchat/internal/model"
)

// Catalog holds the user-facing strings for one language.
type Catalog struct {
	Language model.Language

	// Chat seeds and failures
	Welcome      string
	GenericError string
	Thinking     string
	Placeholder  string
	ReplyingTo   string

	// Canned flows
	SchedulerIntro  string
	CalculatorIntro string
	LocationIntro   string

	// EstimateReply takes the low and high formatted amounts.
	EstimateReply string
	// SchedulerConfirm takes name, topic, date, time and email.
	SchedulerConfirm string

	// Quick reply menus
	GeneralReplies []string
	PricingReplies []string
	SupportReplies []string

	// VoiceErrors is keyed by recognition error category.
	VoiceErrors map[string]string
	Listening   string
}

// VoiceError returns the message for a recognition error category, falling
// back to the "other" message.
func (c *Catalog) VoiceError(code string) string {
	if msg, ok := c.VoiceErrors[code]; ok {
		return msg
	}
	return c.VoiceErrors["other"]
}

// For returns the catalog for lang, or English for unknown languages.
func For(lang model.Language) *Catalog {
	switch lang {
	case model.LanguageArabic:
		return arabic
	case model.LanguageFrench:
		return french
	default:
		return english
	}
}

var english = &Catalog{
	Language:     model.LanguageEnglish,
	Welcome:      "Hello! Welcome to Apex Labs. How can I help you with your digital transformation today?",
	GenericError: "I'm sorry, I'm having trouble connecting right now. Please try again in a moment.",
	Thinking:     "Thinking...",
	Placeholder:  "Type your message...",
	ReplyingTo:   "Replying to",

	SchedulerIntro:  "I'd be happy to help you book a consultation. Please fill in the form below.",
	CalculatorIntro: "Let's estimate the investment for your project. Choose your options below.",
	LocationIntro:   "Here is where you can find our office.",

	EstimateReply:    "Based on your selections, the estimated investment for your project ranges from %s to %s. Contact us for a detailed quote.",
	SchedulerConfirm: "Thank you, %s! Your %s consultation is booked for %s at %s. A confirmation will be sent to %s.",

	GeneralReplies: []string{"What services do you offer?", "Get a price estimate", "Schedule a consultation", "Where is your office?"},
	PricingReplies: []string{"Open the price calculator", "What affects the cost?", "Talk to sales"},
	SupportReplies: []string{"Contact support", "Schedule a call", "Browse case studies"},

	VoiceErrors: map[string]string{
		"no-speech":           "No speech was detected. Please try again.",
		"not-allowed":         "Microphone access was denied. Please allow microphone access.",
		"network":             "A network error occurred during speech recognition.",
		"aborted":             "Speech recognition was stopped.",
		"audio-capture":       "No microphone was found. Please check your audio device.",
		"service-not-allowed": "Speech recognition is not allowed on this device.",
		"other":               "Speech recognition failed. Please type your message instead.",
	},
	Listening: "Listening...",
}

var arabic = &Catalog{
	Language:     model.LanguageArabic,
	Welcome:      "مرحباً! أهلاً بك في أبكس لابز. كيف يمكنني مساعدتك في التحول الرقمي اليوم؟",
	GenericError: "عذراً، أواجه مشكلة في الاتصال حالياً. يرجى المحاولة مرة أخرى بعد قليل.",
	Thinking:     "جارٍ التفكير...",
	Placeholder:  "اكتب رسالتك...",
	ReplyingTo:   "الرد على",

	SchedulerIntro:  "يسعدني مساعدتك في حجز استشارة. يرجى تعبئة النموذج أدناه.",
	CalculatorIntro: "لنقدّر تكلفة مشروعك. اختر الخيارات المناسبة أدناه.",
	LocationIntro:   "هذا هو موقع مكتبنا.",

	EstimateReply:    "بناءً على اختياراتك، تتراوح التكلفة التقديرية لمشروعك بين %s و %s. تواصل معنا للحصول على عرض سعر مفصل.",
	SchedulerConfirm: "شكراً لك يا %s! تم حجز استشارة %s في %s الساعة %s. سيتم إرسال تأكيد إلى %s.",

	GeneralReplies: []string{"ما هي الخدمات التي تقدمونها؟", "احصل على تقدير للسعر", "احجز استشارة", "أين يقع مكتبكم؟"},
	PricingReplies: []string{"افتح حاسبة الأسعار", "ما الذي يؤثر على التكلفة؟", "تحدث مع المبيعات"},
	SupportReplies: []string{"تواصل مع الدعم", "احجز مكالمة", "تصفح دراسات الحالة"},

	VoiceErrors: map[string]string{
		"no-speech":           "لم يتم اكتشاف أي كلام. يرجى المحاولة مرة أخرى.",
		"not-allowed":         "تم رفض الوصول إلى الميكروفون. يرجى السماح بالوصول.",
		"network":             "حدث خطأ في الشبكة أثناء التعرف على الكلام.",
		"aborted":             "تم إيقاف التعرف على الكلام.",
		"audio-capture":       "لم يتم العثور على ميكروفون. يرجى التحقق من جهاز الصوت.",
		"service-not-allowed": "التعرف على الكلام غير مسموح به على هذا الجهاز.",
		"other":               "فشل التعرف على الكلام. يرجى كتابة رسالتك بدلاً من ذلك.",
	},
	Listening: "جارٍ الاستماع...",
}

var french = &Catalog{
	Language:     model.LanguageFrench,
	Welcome:      "Bonjour ! Bienvenue chez Apex Labs. Comment puis-je vous aider dans votre transformation numérique aujourd'hui ?",
	GenericError: "Désolé, j'ai du mal à me connecter pour le moment. Veuillez réessayer dans un instant.",
	Thinking:     "Réflexion...",
	Placeholder:  "Tapez votre message...",
	ReplyingTo:   "Réponse à",

	SchedulerIntro:  "Je serais ravi de vous aider à réserver une consultation. Veuillez remplir le formulaire ci-dessous.",
	CalculatorIntro: "Estimons l'investissement pour votre projet. Choisissez vos options ci-dessous.",
	LocationIntro:   "Voici où trouver notre bureau.",

	EstimateReply:    "Selon vos choix, l'investissement estimé pour votre projet se situe entre %s et %s. Contactez-nous pour un devis détaillé.",
	SchedulerConfirm: "Merci, %s ! Votre consultation %s est réservée le %s à %s. Une confirmation sera envoyée à %s.",

	GeneralReplies: []string{"Quels services proposez-vous ?", "Obtenir une estimation", "Planifier une consultation", "Où se trouve votre bureau ?"},
	PricingReplies: []string{"Ouvrir le calculateur de prix", "Qu'est-ce qui influence le coût ?", "Parler aux ventes"},
	SupportReplies: []string{"Contacter le support", "Planifier un appel", "Voir les études de cas"},

	VoiceErrors: map[string]string{
		"no-speech":           "Aucune parole détectée. Veuillez réessayer.",
		"not-allowed":         "L'accès au microphone a été refusé. Veuillez l'autoriser.",
		"network":             "Une erreur réseau est survenue pendant la reconnaissance vocale.",
		"aborted":             "La reconnaissance vocale a été interrompue.",
		"audio-capture":       "Aucun microphone détecté. Vérifiez votre périphérique audio.",
		"service-not-allowed": "La reconnaissance vocale n'est pas autorisée sur cet appareil.",
		"other":               "La reconnaissance vocale a échoué. Veuillez saisir votre message.",
	},
	Listening: "Écoute en cours...",
}
