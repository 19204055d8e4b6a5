// file: services/upload_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crazy88/database"
	"crazy88/logging"
	"crazy88/models"
	"crazy88/utils"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"gorm.io/gorm/clause"
)

const (
	maxEvidenceBytes        = 25 << 20 // 单个证据文件上限 25MB
	uploadMaxAttempts       = 3
	videoSurrogateThreshold = 16 << 20
)

// 线性退避步长，测试里会调小
var uploadBackoffStep = 2 * time.Second

var (
	ErrEvidenceTooLarge = errors.New("证据文件超出大小上限")
	ErrEvidenceType     = errors.New("证据媒体类型不符合任务要求")
	ErrUploadExhausted  = errors.New("上传重试次数用尽")
)

// EvidenceFile 待上传的证据
type EvidenceFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// VideoSurrogateMaker 超大/超长视频的替身生成方（缩略图或帧拼图）。
// 视频编解码内部属于外部媒体处理协作方，这里只留注入点。
type VideoSurrogateMaker interface {
	MakeSurrogate(ctx context.Context, data []byte, contentType string) ([]byte, string, error)
}

// videoSurrogate 为 nil 时超大视频原样上传
var videoSurrogate VideoSurrogateMaker

// SetVideoSurrogateMaker 注入视频替身生成方
func SetVideoSurrogateMaker(m VideoSurrogateMaker) {
	videoSurrogate = m
}

// mediaKindOf 由 MIME 主类型映射到任务声明的媒体类型
func mediaKindOf(contentType string) (models.MediaKind, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaPhoto, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaVideo, true
	case strings.HasPrefix(contentType, "audio/"):
		return models.MediaAudio, true
	}
	return "", false
}

// ValidateEvidence 大小与类型门禁，必须在任何网络调用之前完成
func ValidateEvidence(a *models.Assignment, f *EvidenceFile) error {
	if f.Size > maxEvidenceBytes {
		return ErrEvidenceTooLarge
	}
	kind, ok := mediaKindOf(f.ContentType)
	if !ok {
		return ErrEvidenceType
	}
	if !a.AllowsMedia(kind) {
		return ErrEvidenceType
	}
	return nil
}

// 按原始大小选择压缩档位：越大的图压得越狠
func imageTier(size int64) (maxDim int, quality float32) {
	switch {
	case size > 8<<20:
		return 1280, 60
	case size > 2<<20:
		return 1600, 70
	default:
		return 1920, 80
	}
}

// compressImage 有界缩放后重编码为 webp。尽力而为：解码失败时原样返回
func compressImage(data []byte, size int64) ([]byte, string) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		logging.Log.Debugf("image decode failed, uploading original: %v", err)
		return data, ""
	}

	maxDim, quality := imageTier(size)
	img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: quality}); err != nil {
		logging.Log.Debugf("webp encode failed, uploading original: %v", err)
		return data, ""
	}
	// 压缩反而变大时保留原图
	if buf.Len() >= len(data) {
		return data, ""
	}
	return buf.Bytes(), "image/webp"
}

// prepareEvidence 压缩阶段：图片本地重编码；超大视频交给注入的替身生成方
func prepareEvidence(ctx context.Context, f *EvidenceFile) ([]byte, string) {
	kind, _ := mediaKindOf(f.ContentType)
	switch kind {
	case models.MediaPhoto:
		data, ct := compressImage(f.Data, f.Size)
		if ct == "" {
			ct = f.ContentType
		}
		return data, ct
	case models.MediaVideo:
		if f.Size > videoSurrogateThreshold && videoSurrogate != nil {
			data, ct, err := videoSurrogate.MakeSurrogate(ctx, f.Data, f.ContentType)
			if err != nil {
				logging.Log.Warnf("video surrogate failed, uploading original: %v", err)
				return f.Data, f.ContentType
			}
			return data, ct
		}
	}
	return f.Data, f.ContentType
}

// uploadWithRetry 有界重试 + 线性退避
func uploadWithRetry(ctx context.Context, store *ObjectStore, key, contentType string, data []byte) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= uploadMaxAttempts; attempt++ {
		url, err := store.Upload(ctx, key, contentType, data)
		if err == nil {
			return url, nil
		}
		lastErr = err
		logging.Log.Warnf("evidence upload attempt %d/%d failed: %v", attempt, uploadMaxAttempts, err)
		if attempt < uploadMaxAttempts {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrUploadExhausted, ctx.Err())
			case <-time.After(time.Duration(attempt) * uploadBackoffStep):
			}
		}
	}
	return "", fmt.Errorf("%w: %v", ErrUploadExhausted, lastErr)
}

// 重新提交时原地覆盖这些列，并把审核状态拉回 pending
var submissionUpdateColumns = []string{
	"status", "points_awarded", "evidence_url", "evidence_type",
	"evidence_size", "submitted_at", "reviewed_at", "jury_notes",
}

// UploadEvidence 上传管线入口：门禁 → 压缩 → 有界重试上传 → 覆盖式写提交行 → 触发队伍提交。
// 门禁或重试耗尽都不会留下任何半成品记录。
func UploadEvidence(ctx context.Context, store *ObjectStore,
	teamID uint32, number uint16, sessionID uint32, f *EvidenceFile) (*models.Submission, error) {

	assignment, err := getAssignmentByNumber(number)
	if err != nil {
		return nil, err
	}
	if err := ValidateEvidence(assignment, f); err != nil {
		return nil, err
	}

	// 提交前置条件也要先于上传检查，避免白传一个注定被拒的文件
	if _, err := gateOpen(sessionID); err != nil {
		return nil, err
	}
	cur, err := GetStatus(teamID, number, sessionID)
	if err != nil {
		return nil, err
	}
	if cur != nil && cur.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}

	data, contentType := prepareEvidence(ctx, f)

	key := utils.GenerateEvidenceKey(sessionID, number, f.Name)
	evidenceURL, err := uploadWithRetry(ctx, store, key, contentType, data)
	if err != nil {
		return nil, err
	}

	sub := models.Submission{
		TeamID:           teamID,
		AssignmentNumber: number,
		SessionID:        sessionID,
		Status:           models.SubmissionPending,
		EvidenceURL:      evidenceURL,
		EvidenceType:     contentType,
		EvidenceSize:     uint64(len(data)),
		SubmittedAt:      time.Now(),
	}
	err = database.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "team_id"}, {Name: "assignment_number"}, {Name: "session_id"},
		},
		DoUpdates: clause.AssignmentColumns(submissionUpdateColumns),
	}).Create(&sub).Error
	if err != nil {
		return nil, err
	}

	var saved models.Submission
	err = database.DB.
		Where("team_id = ? AND assignment_number = ? AND session_id = ?", teamID, number, sessionID).
		First(&saved).Error
	if err != nil {
		return nil, err
	}

	if err := SubmitAssignment(teamID, number, sessionID, saved.ID); err != nil {
		return nil, err
	}
	return &saved, nil
}
