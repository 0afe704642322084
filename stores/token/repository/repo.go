package repository

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mintbay/goapi/base/ctx"
	"github.com/mintbay/goapi/base/database/mongoclient"
	"github.com/mintbay/goapi/base/log"
	"github.com/mintbay/goapi/domain"
	"github.com/mintbay/goapi/domain/nftitem"
	"github.com/mintbay/goapi/service/cache"
	"github.com/mintbay/goapi/service/cache/provider"
	"github.com/mintbay/goapi/service/cache/provider/compound"
	"github.com/mintbay/goapi/service/cache/provider/primitive"
	redisCache "github.com/mintbay/goapi/service/cache/provider/redis"
	"github.com/mintbay/goapi/service/query"
	"github.com/mintbay/goapi/service/redis"
)

// tokenIdCounter is the counter document reserving sequential token ids
const tokenIdCounterName = "tokenId"

type counterDoc struct {
	Name string `bson:"name"`
	Seq  int64  `bson:"seq"`
}

type impl struct {
	query     query.Mongo
	itemCache cache.Service
}

// New creates new nft item repo
func New(query query.Mongo, redis redis.Service) nftitem.Repo {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("nftitem", 64),
	}

	if redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(redis))
	}

	return &impl{
		query: query,
		itemCache: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   "nftitem",
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func cacheKey(tokenId domain.TokenId) string {
	return strconv.FormatInt(int64(tokenId), 10)
}

func (im *impl) FindOne(c ctx.Ctx, tokenId domain.TokenId) (*nftitem.NftItem, error) {
	res := &nftitem.NftItem{}
	if err := im.itemCache.GetByFunc(c, cacheKey(tokenId), res, func() (interface{}, error) {
		return im.findOne(c, tokenId)
	}); err != nil {
		if err != domain.ErrTokenNotFound {
			c.WithFields(log.Fields{
				"err":     err,
				"tokenId": tokenId,
			}).Error("itemCache.GetByFunc failed")
		}
		return nil, err
	}
	return res, nil
}

func (im *impl) findOne(c ctx.Ctx, tokenId domain.TokenId) (*nftitem.NftItem, error) {
	item := &nftitem.NftItem{}
	err := im.query.FindOne(c, domain.TableItems, bson.M{"tokenId": tokenId}, item)
	if err == query.ErrNotFound {
		return nil, domain.ErrTokenNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("find item failed")
		return nil, err
	}
	return item, nil
}

func makeSelector(opts ...nftitem.FindAllOptions) bson.M {
	o := nftitem.GetFindAllOptions(opts...)
	selector := bson.M{}
	if o.Owner != nil {
		selector["owner"] = *o.Owner
	}
	if o.Status != nil {
		selector["status"] = *o.Status
	}
	return selector
}

func (im *impl) FindAll(c ctx.Ctx, opts ...nftitem.FindAllOptions) ([]*nftitem.NftItem, error) {
	o := nftitem.GetFindAllOptions(opts...)

	offset := 0
	limit := 0
	if o.Offset != nil {
		offset = int(*o.Offset)
	}
	if o.Limit != nil {
		limit = int(*o.Limit)
	}

	sort := "tokenId"
	if o.SortBy != nil && o.SortDir != nil && *o.SortDir == domain.SortDirDesc {
		sort = "-" + *o.SortBy
	} else if o.SortBy != nil {
		sort = *o.SortBy
	}

	items := []*nftitem.NftItem{}
	if err := im.query.Search(c, domain.TableItems, offset, limit, sort, makeSelector(opts...), &items); err != nil {
		c.WithField("err", err).Error("search items failed")
		return nil, err
	}
	return items, nil
}

func (im *impl) Count(c ctx.Ctx, opts ...nftitem.FindAllOptions) (int, error) {
	return im.query.Count(c, domain.TableItems, makeSelector(opts...))
}

func (im *impl) Insert(c ctx.Ctx, item *nftitem.NftItem) error {
	item.Owner = item.Owner.ToLower()
	item.Creator = item.Creator.ToLower()
	if err := im.query.Insert(c, domain.TableItems, item); err != nil {
		c.WithFields(log.Fields{
			"tokenId": item.TokenId,
			"err":     err,
		}).Error("insert item failed")
		return err
	}
	return nil
}

func (im *impl) PatchWithStatus(c ctx.Ctx, tokenId domain.TokenId, expect domain.SaleStatus, updater *nftitem.Updater) error {
	if updater.Status != nil && !expect.CanTransitionTo(*updater.Status) {
		return domain.ErrInvalidTransition
	}
	err := im.patch(c, bson.M{"tokenId": tokenId, "status": expect}, tokenId, updater)
	if err == domain.ErrNotFound {
		// the item moved out of the expected state underneath us
		return domain.ErrInvalidTransition
	}
	return err
}

func (im *impl) patch(c ctx.Ctx, selector bson.M, tokenId domain.TokenId, updater *nftitem.Updater) error {
	if updater.Owner != nil {
		updater.Owner = updater.Owner.ToLowerPtr()
	}
	updaterBson, err := mongoclient.MakeBsonM(updater)
	if err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("make bsonM failed")
		return err
	}
	if err := im.query.Patch(c, domain.TableItems, selector, updaterBson); err != nil {
		if err == query.ErrNotFound {
			return domain.ErrNotFound
		}
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("patch item failed")
		return err
	}
	if err := im.itemCache.Del(c, cacheKey(tokenId)); err != nil {
		c.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("itemCache.Del failed")
	}
	return nil
}

func (im *impl) NextTokenId(c ctx.Ctx) (domain.TokenId, error) {
	res := &counterDoc{}
	if err := im.query.Increment(c, domain.TableCounters, bson.M{"name": tokenIdCounterName}, res, "seq", int64(1)); err != nil {
		c.WithField("err", err).Error("increment token id counter failed")
		return 0, err
	}
	// ids start at 0, the counter holds the count of minted tokens
	return domain.TokenId(res.Seq - 1), nil
}

func (im *impl) CurrentTokenId(c ctx.Ctx) (domain.TokenId, error) {
	res := &counterDoc{}
	err := im.query.FindOne(c, domain.TableCounters, bson.M{"name": tokenIdCounterName}, res)
	if err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		c.WithField("err", err).Error("find token id counter failed")
		return 0, err
	}
	return domain.TokenId(res.Seq), nil
}
