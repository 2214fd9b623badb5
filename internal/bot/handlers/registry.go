package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/lingvobot/internal/bot/ui"
	"github.com/edgard/lingvobot/internal/quiz"
)

// RegisteredHandler represents a command handler with its description and middleware.
// It encapsulates all information needed to register and document a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

func command(name string, h tgbot.HandlerFunc) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     name,
		Handler:     h,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
}

func menuButton(label string, h tgbot.HandlerFunc) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     label,
		Handler:     h,
		MatchType:   tgbot.MatchTypeExact,
	}
}

func callback(data string, match tgbot.MatchType, h tgbot.HandlerFunc) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     data,
		Handler:     h,
		MatchType:   match,
	}
}

// RegisterAllCommands returns every command, menu button and callback
// handler keyed by a unique name. Free text goes to NewDefaultHandler,
// which is installed as the bot's default handler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	buttons := deps.Config.Buttons
	handlers := map[string]RegisteredHandler{
		"/start": command("start", NewStartHandler(deps)),
		"/help":  command("help", NewHelpHandler(deps)),
		"/stats": command("stats", NewStatsHandler(deps)),
		"/quiz":  command("quiz", NewQuizHandler(deps)),

		"menu:spell_check":   menuButton(buttons.SpellCheck, NewSpellCheckHandler(deps)),
		"menu:generate_text": menuButton(buttons.GenerateText, NewTextGenHandler(deps)),
		"menu:channel":       menuButton(buttons.Channel, NewChannelHandler(deps)),
		"menu:topik":         menuButton(buttons.Topik, NewTopikHandler(deps)),
		"menu:feedback":      menuButton(buttons.Feedback, NewFeedbackHandler(deps)),

		"cb:unsubscribe":  callback(ui.CallbackUnsubscribe, tgbot.MatchTypeExact, NewUnsubscribeHandler(deps)),
		"cb:stay":         callback(ui.CallbackStay, tgbot.MatchTypeExact, NewStayHandler(deps)),
		"cb:resubscribe":  callback(ui.CallbackResubscribe, tgbot.MatchTypeExact, NewResubscribeHandler(deps)),
		"cb:write_us":     callback(ui.CallbackWriteUs, tgbot.MatchTypeExact, NewWriteUsHandler(deps)),
		"cb:tell_friend":  callback(ui.CallbackTellFriend, tgbot.MatchTypeExact, NewTellFriendHandler(deps)),
		"cb:our_projects": callback(ui.CallbackOurProjects, tgbot.MatchTypeExact, NewProjectsHandler(deps)),
		"cb:tone":         callback(ui.TonePrefix, tgbot.MatchTypePrefix, NewToneHandler(deps)),
		"cb:quiz":         callback(quiz.CallbackPrefix, tgbot.MatchTypePrefix, NewQuizAnswerHandler(deps)),
	}

	reply := callback(ui.ReplyPrefix, tgbot.MatchTypePrefix, NewReplyHandler(deps))
	reply.Middleware = []tgbot.Middleware{AdminOnly(deps)}
	handlers["cb:reply"] = reply

	return handlers
}

// Commands lists the slash commands published in the client menu.
func Commands() []models.BotCommand {
	return []models.BotCommand{
		{Command: "start", Description: "Главное меню"},
		{Command: "help", Description: "Что умеет бот"},
		{Command: "quiz", Description: "Пройти тест"},
		{Command: "stats", Description: "Моя статистика"},
	}
}
