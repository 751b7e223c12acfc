package bot

import (
	"bossbot/internal/config"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Adapts the global logger to the one the scheduler expects
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(fmt.Sprintf("Scheduler: %s", msg))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(fmt.Sprintf("Scheduler: %s", msg))
}

type scheduledEvent struct {
	name   string
	moment config.Moment
	run    func()
}

func (bot *Bot) events() []scheduledEvent {
	event := bot.config.Event
	return []scheduledEvent{
		{name: "open voting", moment: event.VoteOpen, run: func() { bot.OpenVoting(bot.base) }},
		{name: "close voting", moment: event.VoteClose, run: func() { bot.CloseVoting(bot.base) }},
		{name: "start tracking", moment: event.TrackingStart, run: func() { bot.OpenTracking(bot.base, "") }},
		{name: "stop tracking", moment: event.TrackingStop, run: func() { bot.CloseTracking(bot.base) }},
	}
}

// Build the weekly schedule of the event. It still has to be started
func (bot *Bot) Schedule() (*cron.Cron, error) {

	logger := cronLogger{}
	scheduler := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	for _, event := range bot.events() {
		spec, err := event.moment.CronSpec()
		if err != nil {
			return nil, fmt.Errorf("invalid moment to %s: %w", event.name, err)
		}
		if _, err := scheduler.AddFunc(spec, event.run); err != nil {
			return nil, fmt.Errorf("could not schedule %s at %s: %w", event.name, event.moment, err)
		}
		log.Info().Msg(fmt.Sprintf("Scheduled %s every %s", event.name, event.moment))
	}

	bot.scheduler = scheduler
	return scheduler, nil
}
