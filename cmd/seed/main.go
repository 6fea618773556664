// Command seed fills the submission collection with sample contacts and
// leads spread across the stats windows, so the admin dashboard has data to
// draw during development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pocketpro-tw/lead-services/api/internal/config"
	"github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/common"
	"github.com/pocketpro-tw/lead-services/api/internal/public/domain"
)

type seedOptions struct {
	count      int
	days       int
	drop       bool
	randomSeed int64
}

var sampleNames = []string{"王小明", "陳美玲", "林志豪", "張雅婷", "李承翰", "黃淑芬", "吳建宏", "許家瑜"}

var sampleCompanies = []string{"晨光行銷", "大樹公關", "星河娛樂", "沐恩品牌", "遠見經紀", "光點創意", "禾風整合", "藍海策略"}

var samplePainPoints = []string{
	"合約處理太花時間",
	"請款流程繁瑣，常常拖到月底",
	"旗下創作者報價難以統一管理",
	domain.Unspecified,
}

func main() {
	opts := parseFlags()

	cfg := config.Load()
	logger := log.New(log.Writer(), "[seed] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatalf("MongoDB 連線失敗: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Printf("MongoDB 斷線時發生錯誤: %v", err)
		}
	}()

	collection := client.Database(cfg.MongoDatabase).Collection(cfg.SubmissionCollection)

	if opts.drop {
		if err := collection.Drop(ctx); err != nil {
			logger.Fatalf("清空 %s 失敗: %v", cfg.SubmissionCollection, err)
		}
		logger.Printf("已清空 %s", cfg.SubmissionCollection)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	docs := buildSampleDocuments(rng, opts.count, opts.days)

	insertCtx, insertCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer insertCancel()
	result, err := collection.InsertMany(insertCtx, docs)
	if err != nil {
		logger.Fatalf("寫入範例資料失敗: %v", err)
	}

	logger.Printf("已寫入 %d 筆範例提交 (最近 %d 天)", len(result.InsertedIDs), opts.days)
}

func parseFlags() seedOptions {
	opts := seedOptions{}
	flag.IntVar(&opts.count, "count", 120, "number of sample submissions")
	flag.IntVar(&opts.days, "days", 365, "spread submissions over the last N days")
	flag.BoolVar(&opts.drop, "drop", false, "drop the collection before seeding")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()
	if opts.count < 1 {
		opts.count = 1
	}
	if opts.days < 1 {
		opts.days = 1
	}
	return opts
}

func buildSampleDocuments(rng *rand.Rand, count, days int) []interface{} {
	now := time.Now().UTC()
	docs := make([]interface{}, 0, count)

	for i := 0; i < count; i++ {
		name := sampleNames[rng.Intn(len(sampleNames))]
		company := sampleCompanies[rng.Intn(len(sampleCompanies))]
		createdAt := now.AddDate(0, 0, -rng.Intn(days)).Add(-time.Duration(rng.Intn(86400)) * time.Second)

		kind := domain.KindLead
		if rng.Intn(3) == 0 {
			kind = domain.KindContact
		}

		doc := bson.M{
			"_id":       primitive.NewObjectID(),
			"kind":      string(kind),
			"name":      name,
			"email":     fmt.Sprintf("demo%03d@example.com", i),
			"phone":     fmt.Sprintf("09%08d", rng.Intn(100000000)),
			"company":   company,
			"message":   samplePainPoints[rng.Intn(len(samplePainPoints))],
			"createdAt": createdAt,
		}

		if kind == domain.KindLead {
			industry := common.AllowedIndustries[rng.Intn(len(common.AllowedIndustries))]
			doc["industry"] = industry
			if industry == domain.IndustryOther {
				doc["industryOther"] = "出版業"
			}
			doc["budget"] = common.AllowedBudgets[rng.Intn(len(common.AllowedBudgets))]
		} else {
			doc["industry"] = domain.Unspecified
			doc["budget"] = domain.Unspecified
		}

		docs = append(docs, doc)
	}

	return docs
}
