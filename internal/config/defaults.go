package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"

	DefaultDBPath = "korean_bot.db"

	DefaultLLMProvider    = "openai"
	DefaultLLMBaseURL     = "https://api.mistral.ai/v1"
	DefaultLLMModel       = "codestral-latest"
	DefaultLLMTemperature = 0.7
	DefaultLLMTimeout     = 2 * time.Minute

	DefaultImagesBaseURL     = "https://image.pollinations.ai/prompt/"
	DefaultImagesModel       = "flux"
	DefaultImagesCropHeight  = 60 // vendor watermark band
	DefaultImagesMinBytes    = 1000
	DefaultImagesTimeout     = 60 * time.Second
	DefaultImagesMaxFailures = 3
	DefaultImagesOpenPeriod  = 5 * time.Minute

	DefaultDailyRequests  = 10
	DefaultMaxInputLength = 200

	DefaultWordsPath = "words.json"

	DefaultQuizActiveTTL = 24 * time.Hour

	DefaultBroadcastConcurrency = 1
	DefaultBroadcastSendTimeout = 30 * time.Second

	DefaultTimezone = "Local"

	DefaultChannelURL = "https://t.me/korea_secrets_aliya"
	DefaultInviteURL  = "https://t.me/KoreanLangBot"
)

// Task names known to the scheduler.
const (
	TaskWordOfDay      = "word_of_day"
	TaskDailyQuiz      = "daily_quiz"
	TaskQuizSweep      = "quiz_sweep"
	TaskSQLMaintenance = "sql_maintenance"
)

// DefaultTasks enables both broadcasts and the housekeeping jobs.
var DefaultTasks = map[string]TaskConfig{
	TaskWordOfDay:      {Enabled: true, Schedule: "0 0 9 * * *"},
	TaskDailyQuiz:      {Enabled: true, Schedule: "0 0 19 * * *"},
	TaskQuizSweep:      {Enabled: true, Schedule: "0 15 * * * *"},
	TaskSQLMaintenance: {Enabled: true, Schedule: "0 30 4 * * 0"},
}

// DefaultProjects are advertised under the "our projects" button.
var DefaultProjects = []Link{
	{Title: "Бот для изучающих английский язык", URL: "https://t.me/myligvoacademy_bot"},
	{Title: "Бот-мотиватор для уютных чатов", URL: "https://t.me/Motivate_Chat_Bot"},
}

// DefaultMessages are the user-facing texts. Entries containing verbs are
// fmt templates.
var DefaultMessages = MessagesConfig{
	Welcome: "안녕하세요 🇰🇷\n\nМеня зовут <b>Lingvo</b>, и я твой личный помощник в изучении корейского языка с функцией ИИ.\n\n" +
		"Я накопил обширные знания, изучая лучшие методики преподавания.\n\n➡️ Каждый день я помогаю" +
		" школьникам - <b>повысить успеваемость</b>, а взрослым студентам - <b>достигать успеха в работе</b>.\n\n" +
		"С моей помощью ты сможешь раскрыть свой потенциал, повысить свои профессиональные навыки и добиться успеха в учебе. 🌟\n\n" +
		"<b>Выберите нужный пункт меню, чтобы продолжить 👇🏻</b>",
	Help: "<b>Что я умею:</b>\n\n" +
		"🖍 Проверяю орфографию корейского текста\n" +
		"📩 Пишу тексты на корейском языке в нужном стиле\n" +
		"📖 Каждое утро присылаю слово дня\n" +
		"🧩 Каждый вечер присылаю небольшой тест\n\n" +
		"/quiz - пройти тест прямо сейчас\n/stats - ваша статистика",
	Unknown:            "Не понял вас.\n\n Пожалуйста, выберите пункт в меню ниже 👇🏻",
	NotAuthorized:      "🚫 Доступ запрещён.",
	GeneralError:       "❌ Произошла ошибка. Пожалуйста, попробуйте позже.",
	Processing:         "Ваш запрос обрабатывается... Пожалуйста, подождите 🕒",
	QuotaRemaining:     "Вы можете сделать ещё <b>%d запросов</b> сегодня.\n\n<b>Выберите нужный пункт меню, чтобы продолжить 👇🏻</b>",
	QuotaExhausted:     "Лимит запросов на сегодня исчерпан.\n\n Попробуйте снова завтра. 👋🏻",
	TooLong:            "Ваше сообщение слишком длинное! Пожалуйста, сократите текст до %d символов.",
	EmptyModelResponse: "Ошибка: Пустой ответ от модели.",
	ModelError:         "Произошла ошибка: %v",
	SpellCheckPrompt: "Рад помочь!\n\nПожалуйста, отправьте текст <b>на корейском языке</b>, который вы хотите проверить на орфографию.\n\n" +
		" Я исправлю ошибки и объясню изменения 👇🏻",
	TextTopicPrompt: "С удовольствием помогу!\n\nПожалуйста, опишите, о чем вы бы хотели написать. " +
		"Я напишу любой текст <b>на корейском языке</b> для вас.\n\n" +
		"Опишите кратко его тему (например, эссе, сообщение другу, деловое письмо и т. д.) 👇🏻",
	TextTonePrompt: "В каком стиле хотели бы написать?\n\nВыберите один из предложенных вариантов 👇🏻",
	TextDetailsPrompt: "Вы выбрали стиль письма: <b>%s</b>\n\n" +
		"Хотите добавить что-то особенное в текст? Например, ключевые моменты, длина текста или количество абзацев?" +
		"\n\nЕсли ничего не нужно, просто напишите 'Нет'.",
	NoDetailsAnswer: "нет",
	TopikInfo: "Данный бот рассылает каждый день полезные слова для сдачи экзамена по TOPIK I.\n\n" +
		"Если вы хотите отписаться, нажмите на кнопку ниже.",
	Unsubscribed: "Вы отменили подписку на ежедневную рассылку полезных слов.\n\n" +
		"Если передумаете, вы всегда можете подписаться снова.",
	UnsubscribeError:   "Произошла ошибка при отписке. Пожалуйста, попробуйте позже.",
	StaySubscribed:     "Вы остались подписанным на ежедневную рассылку полезных слов.",
	Resubscribed:       "Вы снова подписались на ежедневную рассылку полезных слов!",
	ResubscribeError:   "Произошла ошибка при подписке. Пожалуйста, попробуйте позже.",
	FeedbackMenu:       "Пожалуйста, выберите вариант обратной связи:",
	FeedbackPrompt:     "Напишите свое сообщение ниже, и мы обязательно ответим.",
	FeedbackSent:       "✅ Ваше сообщение отправлено администратору.\n\nОжидайте ответа!",
	FeedbackForward:    "Новое сообщение от:\n%s\n\n<b>%s</b>",
	AdminReplyPrompt:   "Введите ответ для пользователя <code>%s</code> (id: <code>%d</code>):",
	AdminReplyPrefix:   "📢 Ответ от администратора:\n\n%s",
	AdminReplySent:     "✅ Ответ успешно отправлен пользователю c id <code>%d</code>.",
	AdminReplyFailed:   "❌ Ошибка при отправке сообщения пользователю: %v",
	AdminReplyNoTarget: "❌ Ошибка: не найден ID пользователя для ответа.",
	TellFriend:         "Пригласите друга по этой ссылке: %s  🌟",
	Projects:           "Вот наши проекты, которые могут быть вам полезны:",
	Channel:            "Присоединяйтесь к нашему каналу с полезными материалами по корейскому языку и не только!",
	WordOfDay:          "📖 <b>Слово дня:</b> %s\n🔹 <b>Перевод:</b> %s\n✏️ <b>Пример:</b> %s",
	QuizHeader:         "🧩 <b>Тест дня</b>\n\nВставьте пропущенное слово:\n\n%s",
	QuizCorrect:        "✅ <b>Правильно!</b>\n\n%s",
	QuizWrong:          "\n\n❌ Правильный ответ: <b>%s</b>\n%s",
	QuizMalformed:      "Некорректный ответ.",
	QuizForeign:        "Этот тест предназначен другому пользователю.",
	QuizExpired:        "Этот тест уже завершён или устарел.",
	QuizUnavailable:    "Сейчас тест недоступен. Попробуйте позже.",
	Stats: "📊 <b>Ваша статистика</b>\n\n" +
		"Сегодня: %d из %d (%.1f%%)\n" +
		"За всё время: %d из %d (%.1f%%)",
	Consolations: []string{
		"Не расстраивайтесь, в следующий раз получится! 💪",
		"Ошибки - это часть обучения 🌱",
		"Почти! Попробуйте ещё раз завтра 🙂",
	},
	ExampleFallback:     "Пример отсутствует.",
	TranslationFallback: "Перевод отсутствует.",
}

// DefaultButtons are the keyboard labels.
var DefaultButtons = ButtonsConfig{
	SpellCheck:     "Проверка орфографии 🖍",
	GenerateText:   "Сгенерировать текст 📩",
	Channel:        "Подписаться на наш канал ✅",
	Topik:          "Подготовка к\n TOPIK 1 🇰🇷",
	Feedback:       "Обратная связь 🧡",
	Unsubscribe:    "Отписаться",
	Stay:           "Остаться",
	Resubscribe:    "Подписаться снова",
	WriteUs:        "Написать нам 📩",
	TellFriend:     "Рассказать другу ⭐️",
	OurProjects:    "Наши проекты ✅",
	Reply:          "Ответить",
	OpenChannel:    "Перейти в канал 🇰🇷",
	ToneFormal:     "📚 Официально-формальный",
	ToneSemiFormal: "💬 Неофициально-формальный",
	ToneFriendly:   "😊 Дружеский",
}

// DefaultPrompts are the model instructions.
var DefaultPrompts = PromptsConfig{
	SpellCheck: "Ты помощник для проверки орфографии на корейском языке." +
		"Исправь ошибки в тексте пользователя придерживаясь стиля и коротко объясни изменения." +
		"Ответ отправляй в формате: <b>Исправленный текст:</b>, <b>Ошибки:</b>" +
		"Объясняй ошибки на русском языке только если они есть." +
		"Ты умеешь исправлять ошибки только на корейском языке.",
	GenerateText: "Ты профессиональный помощник для написания текстов. " +
		"Напиши текст на корейском языке в стиле '%s' на тему '%s'. " +
		"Убедись, что текст звучит естественно и соответствует теме. " +
		"Если указаны дополнительные пожелания, учти их.",
	TextDetails: "\n\nДополнительные пожелания: %s.",
	Translate: "Переведи слово или выражение с английского на русский язык. " +
		"Ответь только переводом, без пояснений и кавычек.",
	Example: "Составь одно короткое естественное предложение на корейском языке со словом пользователя. " +
		"Ответь только самим предложением, без перевода и пояснений.",
	ImagePrompt: "Write a short English prompt for an image generator that illustrates the meaning of the given Korean word. " +
		"Depict objects, nature or scenery only. Do not depict people, faces, text or religious imagery. " +
		"Answer with the prompt only.",
}

func defaultConfig() *Config {
	tasks := make(map[string]TaskConfig, len(DefaultTasks))
	for name, t := range DefaultTasks {
		tasks[name] = t
	}
	projects := append([]Link(nil), DefaultProjects...)

	return &Config{
		Logger: LoggerConfig{Level: DefaultLogLevel},
		Telegram: TelegramConfig{
			ChannelURL: DefaultChannelURL,
			InviteURL:  DefaultInviteURL,
			Projects:   projects,
		},
		Database: DatabaseConfig{Path: DefaultDBPath},
		LLM: LLMConfig{
			Provider:    DefaultLLMProvider,
			BaseURL:     DefaultLLMBaseURL,
			Model:       DefaultLLMModel,
			Temperature: DefaultLLMTemperature,
			Timeout:     DefaultLLMTimeout,
		},
		Images: ImagesConfig{
			Enabled:     true,
			BaseURL:     DefaultImagesBaseURL,
			Model:       DefaultImagesModel,
			CropHeight:  DefaultImagesCropHeight,
			MinBytes:    DefaultImagesMinBytes,
			Timeout:     DefaultImagesTimeout,
			MaxFailures: DefaultImagesMaxFailures,
			OpenPeriod:  DefaultImagesOpenPeriod,
		},
		RateLimit: RateLimitConfig{
			DailyRequests:  DefaultDailyRequests,
			MaxInputLength: DefaultMaxInputLength,
		},
		Content:   ContentConfig{WordsPath: DefaultWordsPath},
		Quiz:      QuizConfig{ActiveTTL: DefaultQuizActiveTTL},
		Broadcast: BroadcastConfig{Concurrency: DefaultBroadcastConcurrency, SendTimeout: DefaultBroadcastSendTimeout},
		Scheduler: SchedulerConfig{Timezone: DefaultTimezone, Tasks: tasks},
		Messages:  DefaultMessages,
		Buttons:   DefaultButtons,
		Prompts:   DefaultPrompts,
	}
}
