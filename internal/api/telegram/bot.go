package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "wound-vision/internal/application"
	"wound-vision/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для предварительного анализа ран по фотографии.

📸 Отправьте фото раны, и я оценю тип, стадию, состав тканей и размеры.

📋 Команды:
/check — начать анализ
/last — последний отчёт
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check
2️⃣ Пришлите фото раны (можно файлом, без сжатия)
3️⃣ Получите отчёт: тип, стадия, ткани, размеры, рекомендация

💡 Рекомендации:
• Снимайте при хорошем освещении
• Держите камеру перпендикулярно ране
• Фото должно быть чётким

⚠️ Результат эвристический и не заменяет осмотр врача.

📋 Команды:
/check — начать анализ
/last — последний отчёт
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото раны для анализа."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для нового анализа."
	msgSendPhoto       = "📸 Отправьте /check, а затем фото раны."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Анализирую изображение..."
	msgNoReport        = "📭 Отчётов пока нет. Отправьте /check."
	msgNotImage        = "⚠️ Файл не является изображением. Пришлите фото раны."
	msgDecodeError     = "⚠️ Не удалось прочитать изображение. Попробуйте другой формат."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
)

// maxFileSize предел размера файла, который бот скачивает.
const maxFileSize = 20 << 20

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	users    *app.UserService
	analysis *app.AnalysisService
	client   *http.Client
	log      *zap.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, analysis *app.AnalysisService, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info("Authorized on account", zap.String("username", api.Self.UserName))

	return &Bot{
		api:      api,
		users:    users,
		analysis: analysis,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error("Error getting user", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if file, ok := acceptedImage(msg, user); ok {
		b.handleImage(ctx, msg, file)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.setState(ctx, msg, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		if _, err := b.users.BeginCheck(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			b.log.Error("Error saving user", zap.Error(err))
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		if _, err := b.users.Cancel(ctx, msg.From.ID, msg.Chat.ID); err != nil {
			b.log.Error("Error saving user", zap.Error(err))
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	case "last":
		if user.LastReport == "" {
			b.sendMessage(msg.Chat.ID, msgNoReport)
			return
		}
		b.sendMessage(msg.Chat.ID, user.LastReport)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleImage скачивает вложение и запускает анализ
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, file incomingFile) {
	if err := b.users.StartProcessing(ctx, msg.From.ID); err != nil {
		b.log.Error("Error updating user state", zap.Error(err))
		return
	}
	b.sendMessage(msg.Chat.ID, msgProcessing)

	report, reply := b.analyze(ctx, file)
	if _, err := b.users.FinishProcessing(ctx, msg.From.ID, msg.Chat.ID, report); err != nil {
		b.log.Error("Error saving user", zap.Error(err))
	}
	b.sendMessage(msg.Chat.ID, reply)
}

// analyze возвращает отчёт (пустой при ошибке) и текст ответа
func (b *Bot) analyze(ctx context.Context, file incomingFile) (string, string) {
	raw := entity.RawImage{ContentType: file.contentType, Filename: file.name}

	// Тип проверяем до скачивания: не-изображение отклоняется сразу
	if raw.DeclaresImage() {
		data, err := b.downloadFile(ctx, file.id)
		if err != nil {
			b.log.Error("Error downloading file", zap.String("file_id", file.id), zap.Error(err))
			return "", msgProcessingError
		}
		raw.Data = data
	}

	result, err := b.analysis.Analyze(ctx, raw)
	switch {
	case errors.Is(err, entity.ErrValidation):
		return "", msgNotImage
	case errors.Is(err, entity.ErrDecode):
		return "", msgDecodeError
	case err != nil:
		b.log.Error("Analysis failed", zap.Error(err))
		return "", msgProcessingError
	}

	report := FormatReport(result)
	return report, report
}

// incomingFile вложение сообщения и заявленный тип
type incomingFile struct {
	id          string
	name        string
	contentType string
}

// attachment выбирает фото наибольшего размера или документ.
// Telegram пересжимает фото в JPEG, поэтому их тип всегда image/jpeg.
func attachment(msg *tgbotapi.Message) (incomingFile, bool) {
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		return incomingFile{id: photo.FileID, name: photo.FileUniqueID + ".jpg", contentType: "image/jpeg"}, true
	}
	if msg.Document != nil {
		return incomingFile{id: msg.Document.FileID, name: msg.Document.FileName, contentType: msg.Document.MimeType}, true
	}
	return incomingFile{}, false
}

// acceptedImage возвращает вложение, только если пользователь отправил /check
func acceptedImage(msg *tgbotapi.Message, user *entity.User) (incomingFile, bool) {
	if !user.AwaitingPhoto() {
		return incomingFile{}, false
	}
	return attachment(msg)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("file exceeds %d bytes", maxFileSize)
	}

	return data, nil
}

func (b *Bot) setState(ctx context.Context, msg *tgbotapi.Message, state entity.UserState) {
	if _, err := b.users.SetState(ctx, msg.From.ID, msg.Chat.ID, state); err != nil {
		b.log.Error("Error saving user", zap.Error(err))
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("Error sending message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
