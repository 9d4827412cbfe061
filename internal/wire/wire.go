package wire

import (
	"Foryou/internal/api"
	"Foryou/internal/api/config"
	"Foryou/internal/api/handler"
	"Foryou/internal/job"
	"Foryou/internal/pkg/cron"
	"Foryou/internal/pkg/engagement"
	"Foryou/internal/pkg/guard"
	"Foryou/internal/pkg/kafka"
	"Foryou/internal/pkg/minio"
	"Foryou/internal/pkg/mongo"
	"Foryou/internal/pkg/ranking"
	"Foryou/internal/pkg/util"
	"Foryou/internal/repository"
	"Foryou/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager // 未启用时为 nil
}

// BuildApplication db、mongoDB、resolver 均可为 nil，对应能力降级
func BuildApplication(
	db *gorm.DB,
	mongoDB *mongodriver.Database,
	resolver *minio.URLResolver,
	cfg *config.Config,
) (*ApplicationContainer, error) {
	feedCfg := cfg.Feed
	rnd := util.NewRandom(feedCfg.RandomSeed)

	videoRepo := repository.NewVideoRepo(db)
	videoScoreRepo := repository.NewVideoScoreRepo(db)
	viewEventRepo := repository.NewViewEventRepo(db)
	userInterestRepo := repository.NewUserInterestRepository(db)
	abuseLogRepo := repository.NewAbuseLogRepo(db)
	interactionRepo := repository.NewInteractionRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)

	var urlResolver service.MediaURLResolver
	if resolver != nil {
		urlResolver = resolver
	}
	var impressions service.ImpressionRecorder
	if mongoDB != nil {
		impressions = mongo.NewImpressionRepo(mongoDB)
	}

	limiter := guard.NewViewRateLimiter(
		time.Duration(feedCfg.RateLimitWindow)*time.Second,
		feedCfg.RateLimitMax,
		time.Now,
	)

	scoreService := service.NewScoreService(videoRepo, videoScoreRepo, viewEventRepo, interactionRepo, engagement.NewPhaseController(rnd))
	interestService := service.NewInterestService(userInterestRepo)
	feedService := service.NewFeedService(
		videoRepo,
		viewEventRepo,
		interactionRepo,
		userFollowRepo,
		interestService,
		service.NewVideoFormatter(urlResolver, interactionRepo),
		ranking.NewRanker(rnd, time.Now),
		impressions,
		service.FeedOptions{
			CacheTTL:       time.Duration(feedCfg.CacheTTL) * time.Second,
			TrendingTTL:    time.Duration(feedCfg.TrendingTTL) * time.Second,
			CacheCapacity:  feedCfg.CacheCapacity,
			CandidateLimit: feedCfg.CandidateLimit,
			Now:            time.Now,
		},
	)
	trackService := service.NewTrackService(
		videoRepo,
		viewEventRepo,
		abuseLogRepo,
		interactionRepo,
		userFollowRepo,
		scoreService,
		interestService,
		feedService,
		limiter,
		time.Duration(feedCfg.DedupWindow)*time.Second,
		time.Now,
	)

	handlers := &api.HandlersGroup{
		FeedHandler: handler.NewFeedHandler(feedService, trackService, scoreService, feedCfg.IPHashSalt),
	}
	router := api.SetupRouter(handlers, db, cfg.Logstash)

	// 没有数据库时不做得分补偿，也不消费互动变更
	var reconcileJob *job.ScoreReconcileJob
	var kafkaMgr *kafka.ConsumerManager
	if db != nil {
		reconcileJob = job.NewScoreReconcileJob(scoreService)

		if cfg.KafkaInteractionConsumer.Enable {
			var err error
			kafkaMgr, err = kafka.NewConsumerManager(cfg, videoRepo, scoreService)
			if err != nil {
				return nil, err
			}
		}
	}
	cronMgr := cron.NewCronManager(reconcileJob, job.NewRateLimitSweepJob(limiter))

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
	}, nil
}
