// file: services/scoreboard_service.go
package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"crazy88/database"
	"crazy88/logging"
	"crazy88/models"
)

const (
	popularLimit            = 5
	uncompletedPreviewLimit = 20
	momentumWindow          = 15 * time.Minute
	snapshotCacheTTL        = 15 * time.Second
)

// TeamStanding 单支队伍的排名行
type TeamStanding struct {
	Rank                 uint                `json:"rank"`
	TeamID               uint32              `json:"team_id"`
	TeamName             string              `json:"team_name"`
	Category             models.TeamCategory `json:"category"`
	TotalPoints          uint                `json:"total_points"`
	AssignmentsCompleted uint                `json:"assignments_completed"`
	CreativityPoints     uint                `json:"creativity_points"`
}

// CategoryStat 分组统计
type CategoryStat struct {
	Category      models.TeamCategory `json:"category"`
	TotalPoints   uint                `json:"total_points"`
	TeamCount     uint                `json:"team_count"`
	AveragePoints float64             `json:"average_points"`
}

// PopularAssignment 完成次数最多的任务
type PopularAssignment struct {
	AssignmentNumber uint16 `json:"assignment_number"`
	Completions      uint   `json:"completions"`
}

// MomentumLeader 最近 15 分钟完成数最多的队伍
type MomentumLeader struct {
	TeamID            uint32 `json:"team_id"`
	TeamName          string `json:"team_name"`
	RecentCompletions uint   `json:"recent_completions"`
}

// ScoreboardSnapshot 一次聚合刷新的完整结果
type ScoreboardSnapshot struct {
	SessionID   uint32              `json:"session_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Standings   []TeamStanding      `json:"standings"`
	Categories  []CategoryStat      `json:"categories"`
	Popular     []PopularAssignment `json:"popular"`
	Momentum    *MomentumLeader     `json:"momentum,omitempty"`
	Uncompleted []uint16            `json:"uncompleted"`
}

// ScoreboardAggregator 负责周期性把得分表聚合成排行快照。
// 每次刷新领取一个单调递增的序号，提交前做围栏检查：
// 比已提交刷新更早开始的结果到达时直接丢弃，防止慢响应把排行榜"回滚"。
type ScoreboardAggregator struct {
	mu           sync.Mutex
	nextSeq      uint64
	committedSeq map[uint32]uint64
	current      map[uint32]*ScoreboardSnapshot
}

var defaultAggregator = &ScoreboardAggregator{
	committedSeq: make(map[uint32]uint64),
	current:      make(map[uint32]*ScoreboardSnapshot),
}

// Scoreboard 进程内唯一的聚合器
func Scoreboard() *ScoreboardAggregator {
	return defaultAggregator
}

// 在途的异步刷新计数。刷新协程读 database.DB 包级变量，
// 测试在换库前必须先 drainNudges 等它们全部结束。
var nudgeWG sync.WaitGroup

// NudgeScoreboard 完成写入方在落库后异步触发一次刷新；
// 与周期轮询并发也没关系，围栏保证不会以旧盖新。
func NudgeScoreboard(sessionID uint32) {
	nudgeWG.Add(1)
	go func() {
		defer nudgeWG.Done()
		if _, err := defaultAggregator.Refresh(sessionID); err != nil {
			logging.Log.Warnf("scoreboard refresh failed for session %d: %v", sessionID, err)
		}
	}()
}

// drainNudges 阻塞到所有在途的异步刷新结束
func drainNudges() {
	nudgeWG.Wait()
}

func (a *ScoreboardAggregator) beginRefresh() uint64 {
	return atomic.AddUint64(&a.nextSeq, 1)
}

// commit 围栏检查后提交快照；返回 false 表示该结果已过期被丢弃
func (a *ScoreboardAggregator) commit(sessionID uint32, seq uint64, snap *ScoreboardSnapshot) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if seq <= a.committedSeq[sessionID] {
		return false
	}
	a.committedSeq[sessionID] = seq
	a.current[sessionID] = snap
	return true
}

// Current 当前已提交的快照，可能为 nil（尚未刷新过）
func (a *ScoreboardAggregator) Current(sessionID uint32) *ScoreboardSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current[sessionID]
}

// Refresh 完整执行一次聚合并尝试提交
func (a *ScoreboardAggregator) Refresh(sessionID uint32) (*ScoreboardSnapshot, error) {
	seq := a.beginRefresh()

	snap, err := BuildSnapshot(sessionID)
	if err != nil {
		return nil, err
	}

	if !a.commit(sessionID, seq, snap) {
		// 过期结果：返回当前生效的快照
		return a.Current(sessionID), nil
	}

	a.invalidateCache(sessionID)
	return snap, nil
}

// invalidateCache 提交新快照后清掉 Redis 里的旧渲染结果
func (a *ScoreboardAggregator) invalidateCache(sessionID uint32) {
	if database.RDB == nil {
		return
	}
	keys, err := database.RDB.Keys(database.Ctx, fmt.Sprintf("scoreboard:%d*", sessionID)).Result()
	if err == nil && len(keys) > 0 {
		database.RDB.Del(database.Ctx, keys...)
	}
}

// StartPolling 启动独立的轮询协程。轮询间隔（几十秒量级）与 1 秒的计时器刻度无关，
// 二者不能耦合进同一个循环。返回停止函数。
func (a *ScoreboardAggregator) StartPolling(sessionID uint32, interval time.Duration) func() {
	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		if _, err := a.Refresh(sessionID); err != nil {
			logging.Log.Warnf("initial scoreboard refresh failed: %v", err)
		}
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				if _, err := a.Refresh(sessionID); err != nil {
					logging.Log.Warnf("scoreboard refresh failed: %v", err)
				}
			}
		}
	}()
	return func() { close(stopCh) }
}

// teamAggregate 聚合查询的原始行
type teamAggregate struct {
	TeamID               uint32
	TeamName             string
	Category             models.TeamCategory
	TotalPoints          uint
	AssignmentsCompleted uint
	CreativityPoints     uint
}

// rankStandings 确定性排序并编排名：总分降序、完成数降序、队名升序。
// 平分的队伍在多次聚合之间绝不允许随机换位。
func rankStandings(rows []teamAggregate) []TeamStanding {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		if rows[i].AssignmentsCompleted != rows[j].AssignmentsCompleted {
			return rows[i].AssignmentsCompleted > rows[j].AssignmentsCompleted
		}
		return rows[i].TeamName < rows[j].TeamName
	})

	standings := make([]TeamStanding, 0, len(rows))
	for i, r := range rows {
		standings = append(standings, TeamStanding{
			Rank:                 uint(i + 1),
			TeamID:               r.TeamID,
			TeamName:             r.TeamName,
			Category:             r.Category,
			TotalPoints:          r.TotalPoints,
			AssignmentsCompleted: r.AssignmentsCompleted,
			CreativityPoints:     r.CreativityPoints,
		})
	}
	return standings
}

// computeCategoryStats 分组合计与均分（均分按该组全部队伍数，含零分队伍）
func computeCategoryStats(standings []TeamStanding, teamCounts map[models.TeamCategory]uint) []CategoryStat {
	totals := make(map[models.TeamCategory]uint)
	for _, s := range standings {
		totals[s.Category] += s.TotalPoints
	}

	categories := []models.TeamCategory{models.CategorySchool, models.CategoryFriends, models.CategoryFamily}
	stats := make([]CategoryStat, 0, len(categories))
	for _, cat := range categories {
		count := teamCounts[cat]
		if count == 0 {
			continue
		}
		stat := CategoryStat{
			Category:    cat,
			TotalPoints: totals[cat],
			TeamCount:   count,
		}
		stat.AveragePoints = float64(stat.TotalPoints) / float64(count)
		stats = append(stats, stat)
	}
	return stats
}

// BuildSnapshot 一次完整聚合：只读精简的得分表（联队伍表），不碰状态账本的宽行
func BuildSnapshot(sessionID uint32) (*ScoreboardSnapshot, error) {
	var rows []teamAggregate
	err := database.DB.Table("c88_score s").
		Select("s.team_id, t.team_name, t.category, "+
			"SUM(s.points) as total_points, "+
			"COUNT(*) as assignments_completed, "+
			"SUM(CASE WHEN s.points = ? THEN s.points ELSE 0 END) as creativity_points", CreativityPoints).
		Joins("JOIN c88_team t ON s.team_id = t.id").
		Where("s.session_id = ?", sessionID).
		Group("s.team_id, t.team_name, t.category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var counts []struct {
		Category models.TeamCategory
		Count    uint
	}
	err = database.DB.Table("c88_team").
		Select("category, COUNT(*) as count").
		Where("session_id = ?", sessionID).
		Group("category").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	teamCounts := make(map[models.TeamCategory]uint, len(counts))
	for _, c := range counts {
		teamCounts[c.Category] = c.Count
	}

	var popular []PopularAssignment
	err = database.DB.Table("c88_score").
		Select("assignment_number, COUNT(*) as completions").
		Where("session_id = ?", sessionID).
		Group("assignment_number").
		Order("completions desc, assignment_number asc").
		Limit(popularLimit).
		Scan(&popular).Error
	if err != nil {
		return nil, err
	}

	momentum, err := momentumLeader(sessionID, time.Now())
	if err != nil {
		return nil, err
	}

	uncompleted, err := uncompletedNumbers(sessionID)
	if err != nil {
		return nil, err
	}

	standings := rankStandings(rows)
	return &ScoreboardSnapshot{
		SessionID:   sessionID,
		GeneratedAt: time.Now(),
		Standings:   standings,
		Categories:  computeCategoryStats(standings, teamCounts),
		Popular:     popular,
		Momentum:    momentum,
		Uncompleted: uncompleted,
	}, nil
}

// momentumLeader 最近一个窗口内完成数最多的队伍，平手按队名取前
func momentumLeader(sessionID uint32, now time.Time) (*MomentumLeader, error) {
	since := now.Add(-momentumWindow)

	var leaders []MomentumLeader
	err := database.DB.Table("c88_assignment_status st").
		Select("st.team_id, t.team_name, COUNT(*) as recent_completions").
		Joins("JOIN c88_team t ON st.team_id = t.id").
		Where("st.session_id = ? AND st.status IN ? AND st.completed_at > ?",
			sessionID,
			[]models.AssignmentStatusValue{models.StatusApproved, models.StatusCompletedJury},
			since).
		Group("st.team_id, t.team_name").
		Order("recent_completions desc, t.team_name asc").
		Limit(1).
		Scan(&leaders).Error
	if err != nil {
		return nil, err
	}
	if len(leaders) == 0 {
		return nil, nil
	}
	return &leaders[0], nil
}

// uncompletedNumbers 尚无任何队伍完成的任务编号（有界预览）
func uncompletedNumbers(sessionID uint32) ([]uint16, error) {
	var numbers []uint16
	err := database.DB.Table("c88_assignment").
		Where("active = ?", true).
		Where("number NOT IN (?)",
			database.DB.Table("c88_score").Select("assignment_number").Where("session_id = ?", sessionID)).
		Order("number asc").
		Limit(uncompletedPreviewLimit).
		Pluck("number", &numbers).Error
	return numbers, err
}

// CachedSnapshotJSON 排行榜读路径：短 TTL 的 Redis 缓存 → 内存快照 → 同步刷新兜底
func CachedSnapshotJSON(sessionID uint32) ([]byte, bool, error) {
	cacheKey := fmt.Sprintf("scoreboard:%d", sessionID)

	if database.RDB != nil {
		if val, err := database.RDB.Get(database.Ctx, cacheKey).Result(); err == nil {
			return []byte(val), true, nil
		}
	}

	snap := defaultAggregator.Current(sessionID)
	if snap == nil {
		var err error
		snap, err = defaultAggregator.Refresh(sessionID)
		if err != nil {
			return nil, false, err
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, false, err
	}
	if database.RDB != nil {
		database.RDB.Set(database.Ctx, cacheKey, data, snapshotCacheTTL)
	}
	return data, false, nil
}
